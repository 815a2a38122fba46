package main

import "github.com/peter-kozarec/hedgefx/internal/cli"

func main() {
	cli.Execute()
}
