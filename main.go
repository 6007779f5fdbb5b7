package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	configPath string
	logLevel   string
	host       string
	port       int
	user       string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", ServerName, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "starrocks-mcp-server",
		Short:         "MCP server exposing a StarRocks cluster over stdio",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.host, "host", "", "StarRocks FE host (overrides "+EnvHost+")")
	flags.IntVar(&opts.port, "port", 0, "StarRocks FE query port (overrides "+EnvPort+")")
	flags.StringVar(&opts.user, "user", "", "StarRocks user (overrides "+EnvUser+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve MCP over stdin/stdout (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the server version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ServerName, ServerVersion)
			},
		},
	)
	return root
}

// resolveConfig loads the config file and environment, then applies any
// flags set on the command line.
func resolveConfig(cmd *cobra.Command, opts *cliOptions, lookup LookupEnv) (*Config, error) {
	cfg, err := LoadConfig(opts.configPath, lookup)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("host") {
		cfg.StarRocks.Host = opts.host
	}
	if flags.Changed("port") {
		cfg.StarRocks.Port = opts.port
	}
	if flags.Changed("user") {
		cfg.StarRocks.User = opts.user
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *cliOptions) error {
	cfg, err := resolveConfig(cmd, opts, os.LookupEnv)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	logger, err := newLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		return err
	}

	// Create context that cancels on interrupt signals
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := NewMCPServer(ctx, MySQLOpener(cfg.StarRocks, logger), os.Stdin, os.Stdout, logger)
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}
	defer server.Close()

	logger.Info("server started",
		"version", ServerVersion,
		"host", cfg.StarRocks.Host,
		"port", cfg.StarRocks.Port,
		"user", cfg.StarRocks.User)

	if err := server.Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("server shutdown gracefully")
			return nil
		}
		return errors.Wrap(err, "server error")
	}
	return nil
}
