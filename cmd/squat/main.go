// Command squat is the CLI entry point: read a .squat source file, compile
// it, and run the resulting chunk on the VM. Flags select the optional
// tracing output described in spec.md §6.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/squat/internal/compiler"
	"github.com/funvibe/squat/internal/config"
	"github.com/funvibe/squat/internal/natives"
	"github.com/funvibe/squat/internal/vm"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "squat %s\n", config.Version)
	fmt.Fprintln(os.Stderr, "Usage: squat -f <file> [-c] [-g] [-i] [-s]")
	fmt.Fprintln(os.Stderr, "  -f, --file          source file to run (required)")
	fmt.Fprintln(os.Stderr, "  -c, --code          disassemble the compiled chunk before running")
	fmt.Fprintln(os.Stderr, "  -g, --globals       log the globals vector at every step")
	fmt.Fprintln(os.Stderr, "  -i, --instructions  log each dispatched instruction")
	fmt.Fprintln(os.Stderr, "  -s, --stack         log the operand stack at every step")
	fmt.Fprintln(os.Stderr, "  -h, --help          print this message")
}

func main() {
	var filePath string
	opts := vm.Options{}

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--help":
			printUsage()
			os.Exit(1)
		case "-f", "--file":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -f requires a file path")
				os.Exit(1)
			}
			i++
			filePath = args[i]
		case "-c", "--code":
			opts.LogChunk = true
		case "-g", "--globals":
			opts.LogGlobals = true
		case "-i", "--instructions":
			opts.LogInstructions = true
		case "-s", "--stack":
			opts.LogStack = true
		default:
			if filePath == "" {
				filePath = args[i]
				continue
			}
			fmt.Fprintf(os.Stderr, "Error: unrecognized argument %q\n", args[i])
			os.Exit(1)
		}
	}

	if filePath == "" {
		printUsage()
		os.Exit(1)
	}
	if !config.HasSourceExt(filePath) {
		fmt.Fprintf(os.Stderr, "Error: %s does not have a recognized source extension (%v)\n", filePath, config.SourceFileExtensions)
		os.Exit(1)
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %s\n", filePath, err)
		os.Exit(1)
	}

	chunkName := config.TrimSourceExt(filepath.Base(filePath))
	reg := natives.New(os.Stdout)
	c := compiler.NewNamed(string(source), chunkName, reg)
	result, err := c.Compile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	machine := vm.New(result.Chunk, result.Constants, reg, result.GlobalCount, os.Stderr, opts)
	exitCode, err := machine.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
