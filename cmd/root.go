package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the taskreport application
var rootCmd = &cobra.Command{
	Use:   "taskreport",
	Short: "Prints a deadline report for the tasks of the local task API",
	Long: `taskreport fetches the task list from the task API once, works out which
task is due next and how much time is left until the end of that day, and
prints a short report in Spanish.

The report command runs by default when no subcommand is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// version will be set by main
var version = "dev"

// errReported means the failure was already explained to the operator on stderr.
var errReported = errors.New("error already reported")

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "taskreport version %s\n" .Version}}`)

	os.Args = withDefaultCommand(os.Args)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// withDefaultCommand inserts the report command when args carry no subcommand,
// so that "taskreport --timeout 3s" behaves like "taskreport report --timeout 3s".
func withDefaultCommand(args []string) []string {
	if len(args) == 1 {
		return append(args, "report")
	}
	first := args[1]
	if !strings.HasPrefix(first, "-") {
		return args
	}
	switch first {
	case "-h", "--help", "-v", "--version":
		return args
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[0], "report")
	return append(out, args[1:]...)
}

func init() {
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}
