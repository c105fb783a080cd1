package main

import (
	"github.com/walshy828/dodgeball-sale/cmd"
	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Start()
}
