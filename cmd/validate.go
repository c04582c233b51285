package cmd

import (
	"fmt"
	"io"

	"github.com/arcanaland/easel/internal/config"
	"github.com/arcanaland/easel/internal/validator"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [artwork]",
	Short: "Validate an artwork record",
	Long: `Validate checks that an artwork record has everything a card needs to render
and flags data that will render in a degraded way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args[0])
	},
}

func runValidate(out io.Writer, name string) error {
	path, err := config.GetArtworkPath(name)
	if err != nil {
		return err
	}

	v := validator.NewValidator(path)
	results, err := v.Validate()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	fmt.Fprintln(out, "Validation Results:")
	fmt.Fprintln(out, "-------------------")

	if len(results.Errors) == 0 {
		fmt.Fprintf(out, "✅ Artwork '%s' is valid.\n", path)
	} else {
		fmt.Fprintf(out, "❌ Artwork '%s' has %d validation errors:\n", path, len(results.Errors))
		for i, err := range results.Errors {
			fmt.Fprintf(out, "%d. %s\n", i+1, err)
		}
	}

	if len(results.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for i, warn := range results.Warnings {
			fmt.Fprintf(out, "%d. %s\n", i+1, warn)
		}
	}

	if len(results.Errors) > 0 {
		return fmt.Errorf("validation failed")
	}
	return nil
}
