package main

import "prompttree/cmd/prompttree-cli/cmd"

func main() {
	cmd.Execute()
}
