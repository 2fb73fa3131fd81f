package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clientcmd "github.com/rzbill/ralphmc/internal/cmd/client"
	serverrun "github.com/rzbill/ralphmc/internal/cmd/server"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ralphmc",
		Short: "Mission control for ralph run logs",
		Long:  "ralphmc serves a live dashboard and JSON API over the append-only run logs written by the ralph loop. This CLI manages the server and queries a running one.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the dashboard server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logDir, _ := cmd.Flags().GetString("log-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			pollMs, _ := cmd.Flags().GetInt("poll-ms")

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				ConfigPath: configPath,
				LogDir:     logDir,
				HTTPAddr:   httpAddr,
				LogLevel:   logLevel,
				LogFormat:  logFormat,
				PollMs:     pollMs,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	serverStartCmd.Flags().String("config", "", "Path to a JSON or YAML config file")
	serverStartCmd.Flags().String("log-dir", "", "Directory the ralph loop writes run logs to")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default :8888)")
	serverStartCmd.Flags().String("log-level", "", "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", "", "Log format: text|json (default text)")
	serverStartCmd.Flags().Int("poll-ms", 0, "Tail poll interval in milliseconds (default 500)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// log commands (implemented in internal/cmd/client)
	rootCmd.AddCommand(clientcmd.NewLogsCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("RALPHMC_SERVER"); v != "" {
		return v
	}
	return "http://127.0.0.1:8888"
}
