package main

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

// DefaultFactListCols is the column set written in fact-list mode.
const DefaultFactListCols = "Label Name contextRef unitRef Dec Prec Lang Value EntityScheme EntityIdentifier Period Dimensions"

var (
	extractTool     string
	extractToolArgs []string
	extractIn       string
	extractFacts    string
	extractConcepts string
	extractCols     string
)

// exitError carries a child's exit status out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// extractArgs builds the extraction tool's arguments. Exactly one of facts
// and concepts is set.
func extractArgs(in, facts, concepts, cols string) ([]string, error) {
	switch {
	case in == "":
		return nil, errors.New("--file is required")
	case facts != "" && concepts != "":
		return nil, errors.New("--facts and --concepts are mutually exclusive")
	case facts != "":
		if cols == "" {
			cols = DefaultFactListCols
		}
		return []string{"--file", in, "--facts", facts, "--factListCols", cols}, nil
	case concepts != "":
		return []string{"--file", in, "--concepts", concepts}, nil
	default:
		return nil, errors.New("one of --facts or --concepts is required")
	}
}

// runTool runs the tool to completion and returns its exit status without
// interpreting it. err is set only when the tool could not be run.
func runTool(tool string, args []string, stdout, stderr io.Writer) (int, error) {
	c := exec.Command(tool, args...)
	c.Stdout = stdout
	c.Stderr = stderr
	err := c.Run()
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return exit.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("failed to run %s: %w", tool, err)
	}
	return 0, nil
}

var extractCmd = &cobra.Command{
	Use:   "extract --file <in> (--facts <out> | --concepts <out>)",
	Short: "Run the command-line extraction tool on a document",
	Long: `Run the command-line extraction tool once and exit with its status.

Fact-list mode (--facts) writes the columns given by --cols, by default:
  ` + DefaultFactListCols + `
Concept-list mode (--concepts) writes the concept list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs, err := extractArgs(extractIn, extractFacts, extractConcepts, extractCols)
		if err != nil {
			return err
		}
		toolArgs = append(append([]string(nil), extractToolArgs...), toolArgs...)
		fmt.Fprintf(cmd.ErrOrStderr(), "running %s %s\n", extractTool, strings.Join(toolArgs, " "))

		code, err := runTool(extractTool, toolArgs, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if code != 0 {
			cmd.SilenceErrors = true
			return &exitError{code: code}
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractTool, "tool", "arelleCmdLine", "extraction tool executable")
	extractCmd.Flags().StringArrayVar(&extractToolArgs, "tool-arg", nil, "argument passed before the extraction flags (repeatable)")
	extractCmd.Flags().StringVarP(&extractIn, "file", "f", "", "input document")
	extractCmd.Flags().StringVar(&extractFacts, "facts", "", "write the fact list to FILE")
	extractCmd.Flags().StringVar(&extractConcepts, "concepts", "", "write the concept list to FILE")
	extractCmd.Flags().StringVar(&extractCols, "cols", "", "fact list columns")
}
