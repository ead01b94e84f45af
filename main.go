package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/notehtml/internal/commands"
	"github.com/gerunddev/notehtml/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "render":
		commands.Render(os.Args[2:])
	case "preview", "show":
		commands.Preview(os.Args[2:])
	case "export":
		commands.Export(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "watch":
		commands.Watch(os.Args[2:])
	case "stop":
		commands.Stop()
	case "status":
		commands.Status()
	case "version", "-v", "--version":
		fmt.Printf("notehtml v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`notehtml - Render markdown notes to HTML

Usage:
  notehtml <command> [options]

Commands:
  render      Print the HTML for a payload file
  preview     Render the note's markdown in the terminal (--plain)
  export      Write a standalone HTML page (--out, --raw, --minify)
  diff        Compare the notes built from two payload files (--markdown)
  watch       Republish a payload file whenever it changes (--interval, --no-export, --plain, --detach)
  stop        Stop the background watcher
  status      Display configuration and watched payloads
  version     Show version information
  help        Show this help message

Payload files:
  .json and .yaml/.yml files hold an object with a "markdown" field
  (see markdown_key in the config); .md files are used as the markdown itself.

Examples:
  notehtml render note.json
  notehtml preview note.yaml
  notehtml export note.json --out note.html --minify
  notehtml diff yesterday.json today.json
  notehtml watch note.json --interval 1s
  notehtml watch note.json --detach

Configuration:
  Config file: %s
  State file:  %s
`, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
