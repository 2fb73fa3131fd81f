package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewLogsCommand constructs the `logs` command group and subcommands.
func NewLogsCommand(baseURL BaseURLFunc) *cobra.Command {
	logsCmd := &cobra.Command{Use: "logs", Short: "Run log operations"}
	logsCmd.PersistentFlags().String("server", "", "Base URL of the ralphmc server")

	logsCmd.AddCommand(
		newLogsListCommand(baseURL),
		newLogsCatCommand(baseURL),
		newLogsTailCommand(baseURL),
	)

	return logsCmd
}

// serverBase resolves the API base URL: the --server flag when set, the
// injected default otherwise.
func serverBase(cmd *cobra.Command, baseURL BaseURLFunc) string {
	if v, err := cmd.Flags().GetString("server"); err == nil && v != "" {
		return v
	}
	return baseURL()
}

// newLogsListCommand constructs the `logs list` subcommand.
func newLogsListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived run logs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var listing []struct {
				Name     string `json:"name"`
				Size     int64  `json:"size"`
				Modified int64  `json:"modified"`
			}
			if err := getJSON(cmd.Context(), serverBase(cmd, baseURL)+"/api/logs", &listing); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(listing)
		},
	}
}

// newLogsCatCommand constructs the `logs cat` subcommand.
func newLogsCatCommand(baseURL BaseURLFunc) *cobra.Command {
	catCmd := &cobra.Command{
		Use:   "cat [name]",
		Short: "Print a run log snapshot (the current log when no name is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("filter")

			endpoint := serverBase(cmd, baseURL) + "/api/log"
			if len(args) == 1 {
				endpoint += "/" + url.PathEscape(args[0])
			}
			if filter != "" {
				endpoint += "?" + url.Values{"filter": {filter}}.Encode()
			}

			var records []json.RawMessage
			if err := getJSON(cmd.Context(), endpoint, &records); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, rec := range records {
				if err := enc.Encode(rec); err != nil {
					return err
				}
			}
			return nil
		},
	}
	catCmd.Flags().String("filter", "", "CEL filter (server-side)")
	return catCmd
}

// newLogsTailCommand constructs the `logs tail` subcommand.
func newLogsTailCommand(baseURL BaseURLFunc) *cobra.Command {
	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the current run log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			offset, _ := cmd.Flags().GetInt("offset")
			filter, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")

			params := url.Values{}
			if offset > 0 {
				params.Set("offset", strconv.Itoa(offset))
			}
			if filter != "" {
				params.Set("filter", filter)
			}
			endpoint := serverBase(cmd, baseURL) + "/api/log/stream"
			if len(params) > 0 {
				endpoint += "?" + params.Encode()
			}

			out := cmd.OutOrStdout()
			n := 0
			return readStream(cmd.Context(), endpoint, func(frame []byte) error {
				if _, err := fmt.Fprintf(out, "%s\n", frame); err != nil {
					return err
				}
				n++
				if limit > 0 && n >= limit {
					return errStopTail
				}
				return nil
			})
		},
	}
	tailCmd.Flags().Int("offset", 0, "Skip the first N records of the log")
	tailCmd.Flags().String("filter", "", "CEL filter (server-side)")
	tailCmd.Flags().Int("limit", 0, "Stop after N events (0 = run until interrupted)")
	return tailCmd
}
