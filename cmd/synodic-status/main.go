package main

import "github.com/synodic/release-repo/cmd/synodic-status/cmd"

func main() {
	cmd.Execute()
}
