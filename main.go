package main

import (
	"github.com/vrecon/vrecon/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
