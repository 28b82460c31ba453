package main

import "github.com/mcoot/chessgame-go/internal/cli"

func main() {
	cli.Execute()
}
