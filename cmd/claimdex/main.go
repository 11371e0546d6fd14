package main

import "github.com/claimdex/claimdex/pkg/cli"

func main() {
	cli.Execute()
}
