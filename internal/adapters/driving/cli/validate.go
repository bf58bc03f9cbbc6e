package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	validateStrict bool
	validateWatch  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate INPUT...",
	Short: "Validate Croissant TOML files",
	Long: `Checks each TOML file for structure, value formats, controlled
vocabularies and cross-references. Diagnostics are printed to stderr and a
one-line verdict per file to stdout.

With --watch the files are validated again whenever they change, until
interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "re-validate when a file changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if conversionService == nil {
		return errors.New("conversion service not configured")
	}

	failed := 0
	for _, name := range args {
		ok, err := validateFile(cmd, name)
		if err != nil {
			if !validateWatch {
				return err
			}
			printError(cmd.ErrOrStderr(), err)
		}
		if !ok {
			failed++
		}
	}

	if validateWatch {
		return watchFiles(cmd, args)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}

// validateFile validates one file and prints its diagnostics and verdict.
func validateFile(cmd *cobra.Command, name string) (bool, error) {
	input, err := readInput(cmd, name)
	if err != nil {
		return false, err
	}

	report, err := conversionService.Validate(cmd.Context(), input)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	if validateStrict {
		report = report.Strict()
	}

	printReport(cmd.ErrOrStderr(), name, report)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, verdict(name, report, isTerminal(out)))
	return report.Valid, nil
}
