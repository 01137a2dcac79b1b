package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/roampages/internal/commands"
	"github.com/gerunddev/roampages/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		commands.Build(os.Args[2:])
	case "preview", "show":
		commands.Preview(os.Args[2:])
	case "parse":
		commands.Parse(os.Args[2:])
	case "status":
		commands.Status(os.Args[2:])
	case "init":
		commands.Init(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("roampages v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`roampages - Publish tagged pages of a Roam Research export

Usage:
  roampages <command> [options]

Commands:
  build       Render the exported pages (use --dry-run to preview changes)
  preview     Render a single page to the terminal
  parse       Show how block text is parsed
  status      Display the pages written by earlier builds
  init        Write a default config file
  version     Show version information
  help        Show this help message

Examples:
  roampages init --graph ~/roam/graph.json --output ~/site/pages
  roampages build
  roampages build --dry-run
  roampages build --no-tui --prune
  roampages preview "Difference Engine"
  roampages parse 'see [[Difference Engine]] and #history'
  roampages status

Configuration:
  Config file: %s
  State file:  %s

For more information, visit: https://github.com/gerunddev/roampages
`, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
