package main

import "github.com/repindex/repindex/internal/cli"

func main() {
	cli.Execute()
}
