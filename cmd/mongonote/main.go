package main

import (
	"fmt"
	"os"
)

const (
	exitUsage   = 1
	exitFailure = 2
)

const usageText = "Please provide the password as an argument: mongonote <password>"

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(exitFailure)
}

func usageExit(msg string) {
	fmt.Println(msg)
	os.Exit(exitUsage)
}
