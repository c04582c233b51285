package cmd

import (
	"fmt"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arcanaland/easel/internal/config"
	"github.com/arcanaland/easel/internal/log"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "easel",
	Short: "Render artwork cards in the terminal",
	Long: `Easel renders artwork cards in the terminal: the image as ANSI art next to
the artists, title, partner and sale status of the work.

Artworks are JSON records kept in your artwork library
(XDG_DATA_HOME/easel/artworks) or anywhere on disk.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			log.SetDebug()
		}
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("base-url", "", "Base URL artwork hrefs are resolved against")
	flags.Int("width", 0, "Width of the artwork image in terminal cells")
	flags.Bool("open", false, "Open artwork pages in the browser")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("debug", false, "Enable debug logging")

	viper.SetEnvPrefix("easel")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// bind each setting to its flag and to the EASEL_* variables named after the flag
	bindings := []struct {
		key  string
		flag string
		env  []string
	}{
		{key: "base_url", flag: "base-url", env: []string{"EASEL_BASE_URL"}},
		{key: "image_width", flag: "width", env: []string{"EASEL_WIDTH", "EASEL_IMAGE_WIDTH"}},
		{key: "open_browser", flag: "open", env: []string{"EASEL_OPEN", "EASEL_OPEN_BROWSER"}},
		{key: "no_color", flag: "no-color", env: []string{"EASEL_NO_COLOR"}},
		{key: "debug", flag: "debug", env: []string{"EASEL_DEBUG"}},
	}
	for _, b := range bindings {
		if err := viper.BindPFlag(b.key, flags.Lookup(b.flag)); err != nil {
			panic(fmt.Sprintf("binding --%s: %v", b.flag, err))
		}
		if err := viper.BindEnv(append([]string{b.key}, b.env...)...); err != nil {
			panic(fmt.Sprintf("binding %s: %v", b.key, err))
		}
	}

	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadSettings layers flags and EASEL_* variables over config.toml
func loadSettings() (*config.Config, error) {
	file, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// config.toml values sit below flags and environment variables
	viper.SetDefault("base_url", file.BaseURL)
	viper.SetDefault("image_width", file.ImageWidth)
	viper.SetDefault("open_browser", file.OpenBrowser)
	viper.SetDefault("no_color", !file.Color)

	settings := &config.Config{
		BaseURL:     viper.GetString("base_url"),
		ImageWidth:  viper.GetInt("image_width"),
		OpenBrowser: viper.GetBool("open_browser"),
		Color:       !viper.GetBool("no_color"),
	}

	// Fall back to built-in defaults for blank values
	if settings.BaseURL == "" {
		settings.BaseURL = config.DefaultBaseURL
	}
	if settings.ImageWidth <= 0 {
		settings.ImageWidth = config.DefaultImageWidth
	}
	if !settings.Color {
		colorize.NoColor = true
	}

	return settings, nil
}
