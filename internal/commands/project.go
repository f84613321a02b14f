package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"folio/internal/api"
	"folio/internal/models"
	"folio/internal/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Browse projects",
	Long:  "Show a project or list the gallery's projects",
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id|title>",
	Short: "Show a project and its files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		projectID, err := resolveProjectID(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}

		project, err := client.GetProject(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}

		printProject(cmd.OutOrStdout(), project)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long:  "List one page of projects. Filters are passed to the server unchanged.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := models.ListOptions{}
		opts.Search, _ = cmd.Flags().GetString("search")
		opts.Category, _ = cmd.Flags().GetString("category")
		opts.SortBy, _ = cmd.Flags().GetString("sort")
		opts.Page, _ = cmd.Flags().GetInt("page")
		opts.PerPage, _ = cmd.Flags().GetInt("per-page")

		client, err := newClient()
		if err != nil {
			return err
		}

		page, err := client.ListProjects(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(page.Projects) == 0 {
			fmt.Fprintln(out, "No projects found.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-40s  %-24s  %5s  %5s\n", "ID", "TITLE", "CATEGORY", "VIEWS", "LIKES")
		for _, p := range page.Projects {
			fmt.Fprintf(out, "%-36s  %-40s  %-24s  %5d  %5d\n",
				p.ID, util.Truncate(p.Title, 40), util.Truncate(p.Category, 24), p.Views, p.Likes)
		}
		fmt.Fprintf(out, "\nPage %d of %d (%d projects)\n", page.CurrentPage, page.Pages, page.Total)
		return nil
	},
}

// resolveProjectID accepts a project id or an exact project title
func resolveProjectID(ctx context.Context, client *api.Client, titleOrID string) (string, error) {
	if util.IsUUID(titleOrID) {
		return titleOrID, nil
	}

	page, err := client.ListProjects(ctx, models.ListOptions{Search: titleOrID})
	if err != nil {
		return "", fmt.Errorf("failed to look up project: %w", err)
	}

	var matches []string
	for _, p := range page.Projects {
		if strings.EqualFold(p.Title, titleOrID) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no project titled %q", titleOrID)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%d projects are titled %q, use the project id", len(matches), titleOrID)
	}
}

func printProject(w io.Writer, p *models.Project) {
	color.New(color.Bold).Fprintln(w, p.Title)
	fmt.Fprintf(w, "ID: %s\n", p.ID)
	if p.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", p.Category)
	}
	if p.Author != nil {
		fmt.Fprintf(w, "Author: %s (@%s)\n", p.Author.FullName, p.Author.Username)
	}
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created: %s\n", p.CreatedAt.Format(time.RFC1123))
	}
	fmt.Fprintf(w, "Views: %d  Likes: %d\n", p.Views, p.Likes)
	fmt.Fprintf(w, "URL: %s\n\n%s\n", globalConfig.ProjectURL(p.ID), p.Description)

	if len(p.Files) > 0 {
		fmt.Fprintf(w, "\nFiles (%d):\n", len(p.Files))
		for _, f := range p.Files {
			name := f.OriginalFilename
			if name == "" {
				name = f.Filename
			}
			fmt.Fprintf(w, "  %-8s %s (%s)\n", f.FileType, name, util.FormatSize(f.FileSize))
		}
	}
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectListCmd)

	projectListCmd.Flags().String("search", "", "Search titles and descriptions")
	projectListCmd.Flags().String("category", "", "Only list projects in this category")
	projectListCmd.Flags().String("sort", "", "Sort order (created_at, views, likes)")
	projectListCmd.Flags().Int("page", 0, "Page number")
	projectListCmd.Flags().Int("per-page", 0, "Projects per page")
}
