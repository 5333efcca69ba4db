package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclebandit/dmcodex/internal/model"
)

func newCampaignCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage campaigns",
	}
	cmd.AddCommand(
		newCampaignCreateCmd(opts),
		newCampaignListCmd(opts),
		newCampaignGetCmd(opts),
		newCampaignUpdateCmd(opts),
		newCampaignDeleteCmd(opts),
		newCampaignPlayedCmd(opts),
		newCampaignStatsCmd(opts),
		newCoverCmd(opts),
	)
	return cmd
}

func newCampaignCreateCmd(opts *rootOptions) *cobra.Command {
	var name, description, cover string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a campaign and its folder tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.CreateCampaignInput{Name: name}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("cover") {
				in.CoverImagePath = &cover
			}

			created, err := opts.client().Create(cmd.Context(), in)
			if err != nil {
				return reportError(cmd, err)
			}
			return printJSON(cmd, created)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "campaign name")
	cmd.Flags().StringVar(&description, "description", "", "campaign description")
	cmd.Flags().StringVar(&cover, "cover", "", "path of an image to import as the cover")
	return cmd
}

func newCampaignListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List campaigns, most recently played first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.client().FindAll(cmd.Context())
			if err != nil {
				return reportError(cmd, err)
			}
			return printJSON(cmd, list)
		},
	}
}

func newCampaignGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one campaign with its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := opts.client().FindByID(cmd.Context(), args[0])
			if err != nil {
				return reportError(cmd, err)
			}
			if found == nil {
				return reportError(cmd, fmt.Errorf("campaign %s not found", args[0]))
			}
			return printJSON(cmd, found)
		},
	}
}

func newCampaignUpdateCmd(opts *rootOptions) *cobra.Command {
	var name, description, cover string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a campaign's name, description or cover pointer",
		Long: `Only the flags given are changed. Pass --cover "" to clear the cover pointer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.UpdateCampaignInput{ID: args[0]}
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("cover") {
				in.CoverImagePath = &cover
			}

			updated, err := opts.client().Update(cmd.Context(), in)
			if err != nil {
				return reportError(cmd, err)
			}
			return printJSON(cmd, updated)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new campaign name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&cover, "cover", "", "cover path inside the campaign cover folder")
	return cmd
}

func newCampaignDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a campaign and its folder tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().Delete(cmd.Context(), args[0]); err != nil {
				return reportError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted campaign %s\n", args[0])
			return nil
		},
	}
}

func newCampaignPlayedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "played <id>",
		Short: "Mark a campaign as played now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := opts.client().UpdateLastPlayed(cmd.Context(), args[0])
			if err != nil {
				return reportError(cmd, err)
			}
			return printJSON(cmd, updated)
		},
	}
}

func newCampaignStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <id>",
		Short: "Show related record counts for a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := opts.client().GetStatistics(cmd.Context(), args[0])
			if err != nil {
				return reportError(cmd, err)
			}
			if stats == nil {
				return reportError(cmd, fmt.Errorf("campaign %s not found", args[0]))
			}
			return printJSON(cmd, stats)
		},
	}
}
