package main

import (
	"fmt"
	"os"

	"github.com/deanrtaylor1/gospam/cli"
	"github.com/deanrtaylor1/gospam/util"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, util.TerminalRed+"Error: "+err.Error()+util.TerminalReset)
		os.Exit(1)
	}
}
