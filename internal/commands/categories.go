package commands

import (
	"fmt"

	"folio/internal/models"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the project categories",
	Long:  "List the categories a project can be filed under. The category is optional.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range models.Categories {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
