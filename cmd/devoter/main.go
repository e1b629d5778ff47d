package main

import (
	"github.com/devoter-xyz/devoter-contracts-sub000/cmd/devoter/cmd"
)

func main() {
	cmd.Execute()
}
