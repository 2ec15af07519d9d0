package main

import (
	"github.com/fncnt/rafft/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
