package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidArgs      = 2
	ExitCatalogError     = 3
	ExitStorageError     = 4
	ExitValidationFailed = 5
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
	case "pack":
		return runPack(cmdArgs)
	case "plan":
		return runPlan(cmdArgs)
	case "validate":
		return runValidate(cmdArgs)
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
	fmt.Fprintln(os.Stderr, `Usage: airgap <command> [options]

Commands:
  pack      Build an air-gapped bundle: fetch every schema in the catalog
            and rewrite the catalog to point at the local copies
  plan      Show the local filename planned for every catalog entry
  validate  Verify that a bundle's catalog only references files that exist

Run 'airgap <command> -h' for command-specific help.`)
}
