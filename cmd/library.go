package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/arcanaland/easel/internal/config"
	"github.com/arcanaland/easel/internal/library"
	"github.com/spf13/cobra"
)

// libraryCmd represents the library command group
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage artworks in your artwork library",
	Long:  `Commands for managing the artwork records in your artwork library.`,
}

// libraryListCmd represents the library ls command
var libraryListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List artworks in your artwork library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraryList(cmd.OutOrStdout(), config.GetLibraryPath())
	},
}

// libraryInitCmd represents the library init command
var libraryInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the artwork library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraryInit(cmd.OutOrStdout())
	},
}

func init() {
	RootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryInitCmd)
}

func runLibraryList(out io.Writer, libraryPath string) error {
	if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
		fmt.Fprintf(out, "Artwork library at %s does not exist.\n", libraryPath)
		fmt.Fprintln(out, "Run 'easel library init' to create it.")
		return nil
	}

	lib, err := library.Open(libraryPath)
	if err != nil {
		return err
	}

	entries, skipped, err := lib.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 && len(skipped) == 0 {
		fmt.Fprintln(out, "No artworks found in your artwork library.")
		fmt.Fprintln(out, "You can add artworks by copying JSON records to:", lib.Path)
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(out, "  %s (%s)\n", e.Name, e.Summary())
	}
	for _, name := range skipped {
		fmt.Fprintf(out, "! %s [unreadable]\n", name)
	}

	return nil
}

func runLibraryInit(out io.Writer) error {
	libraryPath := config.GetLibraryPath()
	if err := library.Init(libraryPath); err != nil {
		return err
	}

	fmt.Fprintln(out, "Artwork library initialized at:", libraryPath)
	fmt.Fprintln(out, "You can now add artworks by copying JSON records to this directory.")

	if _, err := config.LoadConfig(); err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}

	fmt.Fprintln(out, "Config file initialized at:", config.GetConfigFilePath())
	return nil
}
