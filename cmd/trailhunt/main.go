package main

import (
	"github.com/huntworks/trailhunt/internal/cli"
)

func main() {
	cli.Execute()
}
