package commands

import (
	"fmt"

	"folio/internal/models"
	"folio/internal/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show and update user profiles",
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user's profile and projects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		profile, err := client.GetUser(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.Bold).Fprintf(out, "%s (@%s)\n", profile.FullName, profile.Username)
		if profile.Bio != "" {
			fmt.Fprintln(out, profile.Bio)
		}
		fmt.Fprintf(out, "\nProjects (%d):\n", profile.ProjectsCount)
		for _, p := range profile.Projects {
			fmt.Fprintf(out, "  %s  %s\n", p.ID, util.Truncate(p.Title, 60))
		}
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update a user's name or bio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var update models.ProfileUpdate
		if cmd.Flags().Changed("full-name") {
			v, _ := cmd.Flags().GetString("full-name")
			update.FullName = &v
		}
		if cmd.Flags().Changed("bio") {
			v, _ := cmd.Flags().GetString("bio")
			update.Bio = &v
		}
		if update.FullName == nil && update.Bio == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes were made to the profile.")
			return nil
		}

		client, err := requireLogin()
		if err != nil {
			return err
		}

		profile, err := client.UpdateUser(cmd.Context(), args[0], update)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Profile of @%s updated successfully.\n", profile.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userUpdateCmd)

	userUpdateCmd.Flags().String("full-name", "", "New full name")
	userUpdateCmd.Flags().String("bio", "", "New bio")
}
