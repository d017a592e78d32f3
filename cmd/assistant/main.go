package main

import "browser-command-agent/internal/cli"

func main() {
	cli.Execute(cli.Assistant)
}
