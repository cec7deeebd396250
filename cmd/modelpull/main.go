package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess            = 0
	ExitGeneralError       = 1
	ExitInvalidArgs        = 2
	ExitConfigError        = 3
	ExitServiceUnavailable = 4
	ExitStorageError       = 5
	ExitTransferFailed     = 6
	ExitNotFound           = 7
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "fetch":
		return runFetch(cmdArgs)
	case "catalog":
		return runCatalog(cmdArgs)
	case "report":
		return runReport(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: modelpull <command> [options]

Commands:
  fetch     Download every asset in a catalog through the model download service
  catalog   Validate a catalog file and list its assets
  report    Show a stored run report

Run 'modelpull <command> -h' for command-specific help.`)
}
