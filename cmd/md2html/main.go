package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/notehtml/internal/converter"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "help", "-h", "--help":
			printUsage()
			return
		}
	}

	var (
		data []byte
		err  error
	)
	if len(os.Args) > 1 && os.Args[1] != "-" {
		data, err = os.ReadFile(os.Args[1])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(converter.NewConverter().MarkdownToHTML(string(data)))
}

func printUsage() {
	usage := `md2html - Convert markdown to an HTML fragment

Usage:
  md2html [file.md]     Read file.md, or stdin when omitted or "-"

Examples:
  md2html notes/today.md
  echo "# Title" | md2html
`
	fmt.Print(usage)
}
