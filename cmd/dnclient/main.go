package main

import "github.com/mcoot/deadnumber/internal/cli"

func main() {
	cli.Execute()
}
