package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show server readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.client().Status(cmd.Context())
			if err != nil {
				return reportError(cmd, err)
			}
			if asJSON {
				return printJSON(cmd, st)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Protocol version: %d\n", st.ProtocolVersion)
			fmt.Fprintf(out, "Ready:            %t\n", st.Ready)
			fmt.Fprintf(out, "Database:         %s\n", connected(st.DatabaseConnected))
			fmt.Fprintf(out, "Channels:         %d\n", len(st.Channels))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw status as JSON")
	return cmd
}

func connected(ok bool) string {
	if ok {
		return "connected"
	}
	return "unavailable"
}
