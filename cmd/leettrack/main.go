package main

import "github.com/leettrack/leettrack/cli"

func main() {
	cli.Execute()
}
