package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcanaland/easel/internal/artwork"
	"github.com/arcanaland/easel/internal/card"
	"github.com/arcanaland/easel/internal/config"
	"github.com/arcanaland/easel/internal/terminal"
)

const imageTimeout = 10 * time.Second

var showCmd = &cobra.Command{
	Use:   "show [artwork]",
	Short: "Display an artwork card with ANSI art",
	Long: `Show renders an artwork card: the image as ANSI art, followed by the
artists, the title and date, the partner and the sale or auction status.

The artwork may be a name from your artwork library (XDG_DATA_HOME/easel/artworks)
or a path to a JSON file.

Examples:
  easel show andy-warhol-skull
  easel show --width 48 ./skull.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return runShow(cmd.Context(), cmd.OutOrStdout(), settings, args[0])
	},
}

func init() {
	RootCmd.AddCommand(showCmd)
}

func runShow(ctx context.Context, out io.Writer, settings *config.Config, name string) error {
	path, a, err := loadArtwork(name)
	if err != nil {
		return err
	}

	// Relative image paths in a record point next to the record itself
	source := terminal.NewImageSource(&http.Client{}, imageTimeout).RelativeTo(filepath.Dir(path))

	renderer := &terminal.Renderer{
		Images:     terminal.NewImageRenderer(source, config.GetCacheDir()),
		ImageWidth: settings.ImageWidth,
	}

	return renderer.Draw(ctx, out, card.New(a).Render())
}

// loadArtwork resolves an artwork name and loads the record behind it
func loadArtwork(name string) (string, *artwork.Artwork, error) {
	path, err := config.GetArtworkPath(name)
	if err != nil {
		return "", nil, err
	}

	a, err := artwork.Load(path)
	if err != nil {
		return "", nil, fmt.Errorf("error loading artwork: %w", err)
	}
	return path, a, nil
}
