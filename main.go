package main

import (
	"github.com/starcheat/starcheat/cmd"
)

func main() {
	cmd.Execute()
}
