package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Export  *ExportCommand
	Summary *SummaryCommand
	Plan    *PlanCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "histdump"
	parser.LongDescription = "Extract Chromium-family browser history into JSON, CSV and token-budgeted chunks."

	cmds := &commands{
		Export:  &ExportCommand{globals: &globals, version: version},
		Summary: &SummaryCommand{globals: &globals, version: version},
		Plan:    &PlanCommand{globals: &globals},
	}

	parser.AddCommand("export", "Extract history and write output files", "Extract the history database and write the JSON (single file or chunks), CSV and statistics files.", cmds.Export)
	parser.AddCommand("summary", "Print history statistics", "Print totals, categories and top domains without writing any files.", cmds.Summary)
	parser.AddCommand("plan", "Print the chunk plan for a token budget", "Show how the history would be split into chunks for a token budget without writing any files.", cmds.Plan)

	return parser, &globals, cmds
}

// Run is the main entry point for the histdump CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("histdump %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
