package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var roundTripShowTOML bool

var roundTripCmd = &cobra.Command{
	Use:   "roundtrip INPUT",
	Short: "Check that a JSON-LD document survives conversion to TOML and back",
	Long: `Converts a Croissant JSON-LD document to TOML and back again, then compares
the two normalised documents. Reports the first path that changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoundTrip,
}

func init() {
	roundTripCmd.Flags().BoolVar(&roundTripShowTOML, "show-toml", false, "print the intermediate TOML")
	rootCmd.AddCommand(roundTripCmd)
}

func runRoundTrip(cmd *cobra.Command, args []string) error {
	if conversionService == nil {
		return errors.New("conversion service not configured")
	}

	input, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := conversionService.RoundTrip(cmd.Context(), input)
	if result != nil && roundTripShowTOML {
		cmd.OutOrStdout().Write(result.TOML) //nolint:errcheck
	}
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: round trip preserved the document\n", args[0])
	return nil
}
