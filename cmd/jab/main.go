package main

import (
	"github.com/jabtool/jab/internal/cli"
)

func main() {
	cli.Execute()
}
