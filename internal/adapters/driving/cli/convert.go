package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

var (
	toTOMLOutput string
	toJSONOutput string
)

var toTOMLCmd = &cobra.Command{
	Use:     "to-toml INPUT",
	Aliases: []string{"convert-to-text"},
	Short:   "Convert Croissant JSON-LD to commented TOML",
	Long: `Reads a Croissant JSON-LD document and writes it as commented TOML.
Use "-" as INPUT to read from stdin. Without -o the TOML goes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runToTOML,
}

var toJSONCmd = &cobra.Command{
	Use:     "to-json INPUT",
	Aliases: []string{"convert-to-linked-data"},
	Short:   "Convert commented TOML back to Croissant JSON-LD",
	Long: `Reads a Croissant TOML document, validates it, and writes JSON-LD.
Validation diagnostics are printed to stderr; any error-severity
diagnostic aborts the conversion.`,
	Args: cobra.ExactArgs(1),
	RunE: runToJSON,
}

func init() {
	toTOMLCmd.Flags().StringVarP(&toTOMLOutput, "output", "o", "", "output file (default stdout)")
	toJSONCmd.Flags().StringVarP(&toJSONOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(toTOMLCmd)
	rootCmd.AddCommand(toJSONCmd)
}

func runToTOML(cmd *cobra.Command, args []string) error {
	if conversionService == nil {
		return errors.New("conversion service not configured")
	}

	input, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	out, err := conversionService.ToTOML(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return writeOutput(cmd, toTOMLOutput, out)
}

func runToJSON(cmd *cobra.Command, args []string) error {
	if conversionService == nil {
		return errors.New("conversion service not configured")
	}

	input, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	out, err := conversionService.ToJSONLD(cmd.Context(), input)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) && ve.Report != nil {
			printReport(cmd.ErrOrStderr(), args[0], ve.Report)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return writeOutput(cmd, toJSONOutput, out)
}
