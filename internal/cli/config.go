package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repostory/pkg/config"
	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/pipeline"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the " + config.FileName + " settings file",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as TOML",
		Long: `Print the settings a run would use: built-in defaults, overridden by the
config file, overridden by --source and --lanes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("source") {
				cfg.Source = c.source.source
			}
			if flags.Changed("lanes") {
				cfg.Lanes = c.source.lanes
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg)
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a " + config.FileName + " with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.source.config
			if path == "" {
				path = filepath.Join(c.source.repo, config.FileName)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}

			var buf bytes.Buffer
			if err := config.Encode(&buf, config.Default()); err != nil {
				return err
			}
			if err := pipeline.WriteDocument(path, buf.Bytes()); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Created config")
			printFile(w, path)
			printNextStep(w, "Show effective settings", appName+" config show")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
