package main

import (
	"github.com/spf13/cobra"
)

func newCoverCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Import or remove a campaign cover image",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <id> <image>",
			Short: "Copy an image into the campaign cover folder and point the campaign at it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				updated, err := opts.client().SetCoverImage(cmd.Context(), args[0], args[1])
				if err != nil {
					return reportError(cmd, err)
				}
				return printJSON(cmd, updated)
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Delete the imported cover and clear the pointer",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				updated, err := opts.client().RemoveCoverImage(cmd.Context(), args[0])
				if err != nil {
					return reportError(cmd, err)
				}
				return printJSON(cmd, updated)
			},
		},
	)
	return cmd
}
