package main

import "github.com/softpunk/emberfell/internal/cli"

func main() {
	cli.Execute()
}
