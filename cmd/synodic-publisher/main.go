package main

import "github.com/synodic/release-repo/cmd/synodic-publisher/cmd"

func main() {
	cmd.Execute()
}
