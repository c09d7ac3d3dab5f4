package main

import "github.com/bcdannyboy/orcgreeks/cli"

func main() {
	cli.Execute()
}
