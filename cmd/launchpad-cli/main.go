package main

import "github.com/nfrund/launchpad/cmd/launchpad-cli/cmd"

func main() {
	cmd.Execute()
}
