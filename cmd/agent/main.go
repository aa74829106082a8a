package main

import "control-agent/internal/cli"

func main() {
	cli.Execute()
}
