package main

import (
	"os"

	"github.com/cristianoliveira/hnreader/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
