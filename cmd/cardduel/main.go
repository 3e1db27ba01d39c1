package main

import (
	"github.com/mcoot/cardduel-go/internal/cli"
)

func main() {
	cli.Execute()
}
