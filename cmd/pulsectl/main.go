// Command pulsectl inspects and edits the node's local settings and checks an
// MT5 account from the shell.
package main

import (
	"os"

	"pulse-node/cmd/pulsectl/cmd"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
