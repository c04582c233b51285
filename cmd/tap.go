package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arcanaland/easel/internal/card"
	"github.com/arcanaland/easel/internal/config"
	"github.com/arcanaland/easel/internal/switchboard"
)

var tapCmd = &cobra.Command{
	Use:   "tap [artwork]",
	Short: "Tap an artwork card",
	Long: `Tap does what tapping the card does. By default it navigates to the artwork
page, resolved against the base URL. With --select the tap is handed back to
the caller instead and only the artwork ID is printed.

Examples:
  easel tap andy-warhol-skull
  easel tap --open andy-warhol-skull
  easel tap --select ./skull.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selectOnly, _ := cmd.Flags().GetBool("select")

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return runTap(cmd.OutOrStdout(), settings, args[0], selectOnly)
	},
}

func init() {
	RootCmd.AddCommand(tapCmd)

	tapCmd.Flags().BoolP("select", "s", false, "Print the selected artwork ID instead of navigating")
}

func runTap(out io.Writer, settings *config.Config, name string, selectOnly bool) error {
	_, a, err := loadArtwork(name)
	if err != nil {
		return err
	}

	var opener switchboard.Opener
	if settings.OpenBrowser {
		opener = switchboard.BrowserOpener
	}
	sb, err := switchboard.New(settings.BaseURL, out, opener)
	if err != nil {
		return err
	}

	opts := []card.Option{card.WithNavigator(sb)}
	if selectOnly {
		opts = append(opts, card.WithOnPress(func(artworkID string) {
			fmt.Fprintf(out, "Selected artwork: %s\n", artworkID)
		}))
	}

	return card.New(a, opts...).Tap()
}
