package main

import (
	"github.com/luma/doip/cmd"
)

func main() {
	cmd.Execute()
}
