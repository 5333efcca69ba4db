package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/unclebandit/dmcodex/internal/client"
	"github.com/unclebandit/dmcodex/internal/config"
)

type rootOptions struct {
	server  string
	timeout time.Duration

	// transport overrides the HTTP transport when set.
	transport client.Transport
}

func newRootCmd(transport client.Transport) *cobra.Command {
	opts := &rootOptions{transport: transport}

	cmd := &cobra.Command{
		Use:   "codexctl",
		Short: "Manage campaigns on a running codex server",
		Long: `codexctl talks to cmd/server over its loopback protocol.

Available commands:
  campaign - Create, list, update and delete campaigns
  status   - Show server readiness and supported channels`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := config.Default().Client
	if cfg, err := config.Load(); err == nil {
		defaults = cfg.Client
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", defaults.ServerURL, "server base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaults.Timeout, "request timeout")

	cmd.AddCommand(newCampaignCmd(opts), newStatusCmd(opts))
	return cmd
}

func (o *rootOptions) client() *client.CampaignClient {
	if o.transport != nil {
		return client.New(o.transport)
	}
	return client.New(client.NewHTTPTransport(o.server, o.timeout))
}

// printJSON writes v indented to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportError prints the user-facing message and the error code, then returns err so cobra exits non-zero.
func reportError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %v\n", client.CodeOf(err), err)
	return err
}
