package main

import "github.com/synodic/release-repo/cmd/synodic-verifier/cmd"

func main() {
	cmd.Execute()
}
