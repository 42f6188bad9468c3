// Command cart grows CART decision trees from numeric tables and classifies
// new rows with them.
package main

import (
	"os"

	"github.com/YuminosukeSato/cart/internal/config"
	"github.com/YuminosukeSato/cart/pkg/log"
	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	configPath string
	logLevel   string
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	root := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "cart",
		Short: "cart grows classification trees from numeric data",
		Long: `cart induces a binary decision tree (CART, Gini or entropy impurity)
from a labeled numeric table and uses it to classify new rows.

Training data comes from a CSV file or a SQLite query. Trees live only
for the duration of one command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setupLogging(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&root.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&root.logLevel, "log-level", "", "debug, info, warn or error (overrides the config file)")
	rootCmd.AddCommand(versionCmd(), fitCmd(root), predictCmd(root))
	return rootCmd
}

// load reads the configuration file, or the defaults when none was given.
func (r *rootCmdConfig) load() (*config.Config, error) {
	if r.configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(r.configPath)
}

func (r *rootCmdConfig) setupLogging(cmd *cobra.Command) error {
	level := r.logLevel
	if level == "" {
		cfg, err := r.load()
		if err != nil {
			return err
		}
		level = cfg.Logging.Level
	}
	if err := log.SetupLogger(level, cmd.ErrOrStderr()); err != nil {
		return err
	}
	if r.configPath != "" {
		log.GetLoggerWithName("cli").Debug("Configuration loaded", log.ConfigPathKey, r.configPath)
	}
	return nil
}
