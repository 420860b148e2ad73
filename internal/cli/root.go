package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mydungeon/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "mydungeon turns birth dates into item and hissatsu result images",
		Long: `mydungeon fetches the number sequence for a birth date and time, resolves
the items and hissatsu moves those numbers activate, and renders them as a
result image. Two people can be compared in compatibility mode.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $"+envConfig+" or ./"+defaultConfigFile+")")

	root.AddCommand(c.diagnoseCommand())
	root.AddCommand(c.compatCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
