package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/crawlprobe/internal/config"
)

//go:embed templates/crawlprobe.yaml
var configTemplate embed.FS

const templatePath = "templates/crawlprobe.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a crawlprobe configuration file",
		Long: `Init writes an annotated configuration file with the default settings.

By default the file is created in the user configuration directory
($XDG_CONFIG_HOME/crawlprobe/config.yaml).

Examples:
  # Create the per-user configuration file
  crawlprobe init

  # Create a project-local configuration file
  crawlprobe init -o .crawlprobe

  # Force overwrite an existing file
  crawlprobe init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.XDGConfigFile(),
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change defaults such as:")
	fmt.Fprintln(out, "  - Request count, workers and timeout")
	fmt.Fprintln(out, "  - Link filters used in crawl mode")
	fmt.Fprintln(out, "  - Headers, cookie and Tor proxy")

	return nil
}
