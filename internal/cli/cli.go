// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command routing for the agentdeck binary.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Server  string // Agent service base URL (overrides config)
	Quiet   bool
	Verbose bool
	JSON    bool
	Plain   bool // Disable markdown rendering even on a TTY

	// Command-specific
	Query      string // ask: the question text
	Subcommand string // history/config: list|show|delete|clear, show|set|path
	ConfigKey  string
	ConfigVal  string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `agentdeck - terminal chat for a hosted conversational agent

Agentdeck talks to an agent service over HTTP and renders the
conversation in your terminal, including streamed replies, tool calls
and confirmation prompts for sensitive tools.

Usage:
  agentdeck                     Start the TUI (default)
  agentdeck ask "question"      Ask a single question and exit
  agentdeck chat                Line-based chat REPL (no full-screen UI)
  agentdeck history [subcommand]
                                Saved conversation management
  agentdeck config [show|set|path]
                                Configuration
  agentdeck version             Show version information
  agentdeck help                Show this help

History Commands:
  agentdeck history list        List saved conversations
  agentdeck history show <id>   Print a saved transcript
  agentdeck history delete <id> Delete a saved conversation
  agentdeck history clear --confirm
                                Delete all saved conversations

Config Commands:
  agentdeck config show         Print the active configuration
  agentdeck config set KEY VAL  Set a configuration value (e.g. ui.theme dark)
  agentdeck config path         Print the config file location

Global Flags:
  --server URL    Agent service base URL (default from config)
  --plain         Plain text output, no markdown rendering
  --json          Machine-readable output where supported
  -q, --quiet     Minimal output
  -v, --verbose   Verbose output

Environment:
  AGENTDECK_URL          Overrides the agent service URL
  AGENTDECK_THEME        Overrides the UI theme (dark|light)
  AGENTDECK_DEBUG        1/true shows raw tool call JSON
  AGENTDECK_NO_HISTORY   1/true disables conversation history
  NO_COLOR               Disables colored output

Examples:
  agentdeck
  agentdeck ask "What is the weather in Oslo?"
  agentdeck ask --plain "Summarize this error" < build.log
  agentdeck chat --server http://localhost:8787
  agentdeck config set ui.theme light
`

// Parse reads os.Args and returns the command to run plus its arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses an argument vector. Split out from Parse for tests.
func ParseArgs(argv []string) (Command, Args) {
	args := Args{}

	// Peel off global flags first so they work in any position.
	rest := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--server":
			if i+1 < len(argv) {
				args.Server = argv[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--server="):
			args.Server = strings.TrimPrefix(arg, "--server=")
		case arg == "--plain":
			args.Plain = true
		case arg == "--json":
			args.JSON = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "-h" || arg == "--help":
			return CmdHelp, args
		case arg == "--version":
			return CmdVersion, args
		default:
			rest = append(rest, arg)
		}
	}
	args.Raw = rest

	if len(rest) == 0 {
		return CmdTUI, args
	}

	switch rest[0] {
	case "ask":
		args.Query = strings.Join(rest[1:], " ")
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "history", "hist":
		if len(rest) > 1 {
			args.Subcommand = rest[1]
			args.Raw = rest[2:]
		}
		return CmdHistory, args
	case "config":
		if len(rest) > 1 {
			args.Subcommand = rest[1]
		}
		if len(rest) > 2 {
			args.ConfigKey = rest[2]
		}
		if len(rest) > 3 {
			args.ConfigVal = strings.Join(rest[3:], " ")
		}
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		// Bare text is treated as a question: `agentdeck "what is..."`.
		args.Query = strings.Join(rest, " ")
		return CmdAsk, args
	}
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf(`{"version":%q,"commit":%q,"built":%q,"go":%q}`+"\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return
	}
	fmt.Printf("agentdeck %s\n", Version)
	if args.Verbose {
		fmt.Printf("  commit: %s\n", GitCommit)
		fmt.Printf("  built:  %s\n", BuildDate)
		fmt.Printf("  go:     %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}
