package main

import "github.com/agentic-research/shapetrace/cmd"

func main() {
	cmd.Execute()
}
