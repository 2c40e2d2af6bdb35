package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamusis/pfam-cli/internal/config"
)

var configWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration pfam uses after applying ~/.pfam/pfam.yaml, the
defaults and the PFAM_MIRROR override. With --write, save the defaults to
~/.pfam/pfam.yaml and create a ~/.pfam/.env template when neither exists.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configWrite, "write", false, "Create ~/.pfam/pfam.yaml with the defaults if it does not exist")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	rep := reporter(cmd)
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if configWrite {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			rep.Skip("", fmt.Sprintf("%s already exists, not overwriting", path))
		case errors.Is(statErr, os.ErrNotExist):
			if err := config.Save(config.DefaultConfig()); err != nil {
				return err
			}
			rep.OK("", fmt.Sprintf("wrote %s", path))
		default:
			return fmt.Errorf("cannot stat %s: %w", path, statErr)
		}
		if err := config.EnsureDotEnvTemplate(); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	dataDir, err := config.DefaultDataDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# %s\n%s", path, data)
	fmt.Fprintf(out, "# default data directory: %s\n", dataDir)
	return nil
}
