package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"folio/internal/models"
	"folio/internal/queue"
	"folio/internal/submit"
	"folio/internal/ui"
	"folio/internal/util"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var createCmd = &cobra.Command{
	Use:   "create [FILE|DIR]...",
	Short: "Create a project and upload files to it",
	Long: `Create a new project, then upload the given files to it one at a time.
Directories are expanded to the image, video and document files they contain,
skipping hidden files and types the gallery does not accept. A file that fails
to upload does not stop the others; the project is kept either way.`,
	Example: `  folio create --title "Robot arm" --description "3D printed arm" photo.png demo.mp4
  folio create --title "Thesis" --description "Final version" --category "Design" ./docs
  folio create --title "Draft" --description "WIP" --plain --strict notes.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")
		plain, _ := cmd.Flags().GetBool("plain")
		strict, _ := cmd.Flags().GetBool("strict")
		yes, _ := cmd.Flags().GetBool("yes")

		out := cmd.OutOrStdout()

		// Prompt for missing required fields when attached to a terminal
		if isTerminal(os.Stdin) {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if strings.TrimSpace(title) == "" {
				title = prompt(out, scanner, "Project title: ")
			}
			if strings.TrimSpace(description) == "" {
				description = prompt(out, scanner, "Description: ")
			}
		}

		draft := models.ProjectDraft{
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(description),
			Category:    category,
		}
		if err := draft.Validate(); err != nil {
			return err
		}

		files, err := models.ExpandPaths(args)
		if err != nil {
			return err
		}

		q := queue.New()
		for _, f := range files {
			if !models.IsAllowedFile(f.Name()) {
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(),
					"Warning: %s is not an accepted file type (%s) and will likely be rejected\n",
					f.Name(), strings.Join(models.AllowedExtensions, " "))
			}
			if _, err := q.Add(f); err != nil {
				return err
			}
		}

		client, err := requireLogin()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		startTime := time.Now()
		var result *submit.Result

		if !plain && isTerminal(os.Stdout) {
			// The progress view owns the terminal, so diagnostics stay quiet
			submitFn := func(ctx context.Context, observer submit.Observer) (*submit.Result, error) {
				driver := submit.NewDriver(client, submit.WithObserver(observer))
				return driver.Submit(ctx, draft, q)
			}

			final, runErr := tea.NewProgram(ui.NewModel(ctx, draft, q, submitFn, yes)).Run()
			if runErr != nil {
				return fmt.Errorf("error running interactive view: %w", runErr)
			}

			model := final.(ui.Model)
			if model.Aborted {
				fmt.Fprintln(out, "Aborted. No project was created.")
				return nil
			}
			result, err = model.Result, model.Err
		} else {
			driver := submit.NewDriver(client,
				submit.WithLogger(logger.Named("submit")),
				submit.WithObserver(plainObserver(out)),
			)
			fmt.Fprintf(out, "Creating project %q with %d files...\n", draft.Title, q.Len())
			result, err = driver.Submit(ctx, draft, q)
		}

		return reportSubmission(out, result, err, strict, time.Since(startTime))
	},
}

func prompt(w io.Writer, scanner *bufio.Scanner, label string) string {
	fmt.Fprint(w, label)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

// plainObserver prints one line per submission event
func plainObserver(w io.Writer) submit.Observer {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	return func(e submit.Event) {
		switch e.Kind {
		case submit.EventCreated:
			green.Fprintf(w, "Created project %s\n", e.ProjectID)
		case submit.EventItem:
			name := e.Item.File.Name()
			switch e.Item.Status {
			case models.StatusUploading:
				fmt.Fprintf(w, "  uploading %s (%s)\n", name, util.FormatSize(e.Item.File.Size()))
			case models.StatusUploaded:
				green.Fprintf(w, "  ✓ %s\n", name)
			case models.StatusFailed:
				red.Fprintf(w, "  ✗ %s: %s\n", name, e.Item.Reason)
			}
		case submit.EventCanceled:
			yellow.Fprintln(w, "Canceled, remaining files were not uploaded")
		}
	}
}

// reportSubmission prints the outcome and decides the command's error
func reportSubmission(w io.Writer, result *submit.Result, err error, strict bool, elapsed time.Duration) error {
	var creationErr *models.CreationError
	if errors.As(err, &creationErr) {
		color.New(color.FgRed).Fprintln(w, "Project was not created; no files were uploaded.")
		return err
	}

	if result == nil {
		return err
	}

	failed := result.Failed()
	fmt.Fprintf(w, "\nUploaded %d of %d files (%s) in %s\n",
		result.Uploaded(),
		len(result.Items),
		util.FormatSize(result.UploadedBytes()),
		elapsed.Round(time.Millisecond),
	)

	if len(failed) > 0 {
		fmt.Fprintln(w, "Some files failed to upload:")
		for _, it := range failed {
			color.New(color.FgRed).Fprintf(w, "  %s: %s\n", it.File.Name(), it.Reason)
		}
	}

	fmt.Fprintf(w, "Project: %s\n", globalConfig.ProjectURL(result.ProjectID))

	if err != nil {
		return err
	}
	if strict && len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed to upload", len(failed), len(result.Items))
	}

	logger.Debug("create finished", zap.String("project_id", result.ProjectID), zap.Duration("elapsed", elapsed))
	return nil
}

func init() {
	createCmd.Flags().StringP("title", "t", "", "Project title (required)")
	createCmd.Flags().StringP("description", "d", "", "Project description (required)")
	createCmd.Flags().StringP("category", "c", "", "Project category, see 'folio categories'")
	createCmd.Flags().Bool("plain", false, "Print progress lines instead of the interactive view")
	createCmd.Flags().Bool("strict", false, "Exit with an error when any file fails to upload")
	createCmd.Flags().BoolP("yes", "y", false, "Skip the review step and submit immediately")
	rootCmd.AddCommand(createCmd)
}
