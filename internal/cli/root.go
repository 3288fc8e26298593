package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "armada",
		Short: "Armada - Multi-region cluster operations tool",
		Long: `Armada is a CLI tool for operating Kubernetes clusters across the
regions of a deployment registry. It fans work out across regions and
clusters concurrently, and reports version drift against each stage's
target version.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.armada.yaml)")
	rootCmd.PersistentFlags().String("registry", "", "deployment registry file (default is $HOME/.armada/registry.yaml)")
	rootCmd.PersistentFlags().String("kubeconfig", "", "path to kubeconfig file (default is $HOME/.kube/config)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (json, yaml, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "timeout for fan-out operations")
	rootCmd.PersistentFlags().Bool("parallel-disabled", false, "run all fan-outs sequentially")
	rootCmd.PersistentFlags().Int("region-workers", 0, "override the region-tier worker count")
	rootCmd.PersistentFlags().Int("cluster-workers", 0, "override the cluster-tier worker count")
	rootCmd.PersistentFlags().Int("instance-workers", 0, "override the instance-tier worker count")

	viper.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	viper.BindPFlag("kubeconfig", rootCmd.PersistentFlags().Lookup("kubeconfig"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("parallel-disabled", rootCmd.PersistentFlags().Lookup("parallel-disabled"))
	viper.BindPFlag("region-workers", rootCmd.PersistentFlags().Lookup("region-workers"))
	viper.BindPFlag("cluster-workers", rootCmd.PersistentFlags().Lookup("cluster-workers"))
	viper.BindPFlag("instance-workers", rootCmd.PersistentFlags().Lookup("instance-workers"))

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newClusterCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

// initConfig initializes configuration and logging
func initConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".armada")
		viper.SetDefault("registry", filepath.Join(home, ".armada", "registry.yaml"))
	}

	viper.SetEnvPrefix("ARMADA")
	viper.AutomaticEnv()
	viper.BindEnv("parallel-disabled", "ARMADA_PARALLEL_DISABLED")
	viper.BindEnv("registry", "ARMADA_REGISTRY")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	setupLogging(cmd)

	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	if verbose {
		slog.Debug("verbose logging enabled")
		if viper.ConfigFileUsed() != "" {
			slog.Debug("loaded configuration", "file", viper.ConfigFileUsed())
		}
	}
}
