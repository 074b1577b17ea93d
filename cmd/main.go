package main

import "github.com/canopy-network/smt/cmd/cli"

func main() {
	cli.Execute()
}
