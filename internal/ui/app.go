package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"folio/internal/models"
	"folio/internal/queue"
	"folio/internal/submit"
	"folio/internal/ui/components"
	"folio/internal/util"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase is the stage of the create flow shown by the model
type Phase int

const (
	PhaseReview Phase = iota
	PhaseSubmitting
	PhaseDone
)

// SubmitFunc runs a submission, reporting progress to observer
type SubmitFunc func(ctx context.Context, observer submit.Observer) (*submit.Result, error)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Padding(0, 1)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model represents the UI model of the create flow
type Model struct {
	Phase         Phase
	Draft         models.ProjectDraft
	Queue         *queue.Queue
	Items         components.ItemListModel
	Spinner       spinner.Model
	StatusMessage string
	ErrorMessage  string

	// Set once the submission returns
	Result *submit.Result
	Err    error

	// Aborted is set when the user quit before submitting
	Aborted bool

	Width  int
	Height int

	parent        context.Context
	submit        SubmitFunc
	cancel        context.CancelFunc
	events        chan submit.Event
	runSubmission tea.Cmd
}

// NewModel creates the model. With autoSubmit the review phase is skipped.
func NewModel(ctx context.Context, draft models.ProjectDraft, q *queue.Queue, fn SubmitFunc, autoSubmit bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		Phase:         PhaseReview,
		Draft:         draft,
		Queue:         q,
		Items:         components.NewItemListModel(80, 20),
		Spinner:       s,
		StatusMessage: fmt.Sprintf("%d files selected", q.Len()),
		parent:        ctx,
		submit:        fn,
	}
	m.Items.SetItems(q.Snapshot())

	if autoSubmit {
		m.beginSubmission()
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.Phase == PhaseSubmitting {
		return m.submissionCmds()
	}
	return nil
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Items.SetSize(msg.Width, max(msg.Height-6, 4))
		return m, nil

	case spinner.TickMsg:
		if m.Phase != PhaseSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case eventMsg:
		if m.Phase != PhaseSubmitting {
			return m, nil
		}
		m.Items.SetItems(m.Queue.Snapshot())
		m.StatusMessage = describeEvent(submit.Event(msg))
		return m, waitForEvent(m.events)

	case submitDoneMsg:
		return m.finishSubmission(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Phase {
	case PhaseReview:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "x", "delete", "backspace":
			item, ok := m.Items.Selected()
			if !ok {
				return m, nil
			}
			if err := m.Queue.Remove(item.ID); err != nil {
				m.ErrorMessage = fmt.Sprintf("Cannot remove %s: %v", item.File.Name(), err)
				return m, nil
			}
			m.ErrorMessage = ""
			m.Items.SetItems(m.Queue.Snapshot())
			m.StatusMessage = fmt.Sprintf("Removed %s, %d files selected", item.File.Name(), m.Queue.Len())
			return m, nil
		case "enter":
			m.beginSubmission()
			return m, m.submissionCmds()
		}

		var cmd tea.Cmd
		m.Items, cmd = m.Items.Update(msg)
		return m, cmd

	case PhaseSubmitting:
		if msg.String() == "ctrl+c" && m.cancel != nil {
			m.cancel()
			m.StatusMessage = "Canceling after the current file..."
		}
		return m, nil

	default:
		return m, tea.Quit
	}
}

// beginSubmission switches to the submitting phase. The event channel is
// large enough for every event a submission of the current queue emits.
func (m *Model) beginSubmission() {
	ctx, cancel := context.WithCancel(m.parent)
	m.cancel = cancel
	m.events = make(chan submit.Event, 2*m.Queue.Len()+4)
	m.Phase = PhaseSubmitting
	m.ErrorMessage = ""
	m.StatusMessage = "Creating project..."

	events := m.events
	fn := m.submit
	m.runSubmission = func() tea.Msg {
		defer close(events)
		observer := func(e submit.Event) {
			select {
			case events <- e:
			case <-ctx.Done():
			}
		}
		result, err := fn(ctx, observer)
		return submitDoneMsg{result: result, err: err}
	}
}

func (m Model) submissionCmds() tea.Cmd {
	return tea.Batch(m.runSubmission, waitForEvent(m.events), m.Spinner.Tick)
}

func (m Model) finishSubmission(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.Items.SetItems(m.Queue.Snapshot())

	var creationErr *models.CreationError
	if errors.As(msg.err, &creationErr) {
		// The queue was handed back untouched, so the user may retry
		m.Phase = PhaseReview
		m.ErrorMessage = fmt.Sprintf("Project creation failed: %v", creationErr.Err)
		m.StatusMessage = "Press enter to retry or q to quit"
		return m, nil
	}

	m.Phase = PhaseDone
	m.Result = msg.result
	m.Err = msg.err

	switch {
	case errors.Is(msg.err, submit.ErrSubmissionCanceled):
		m.StatusMessage = "Submission canceled"
	case msg.err != nil:
		m.ErrorMessage = msg.err.Error()
		m.StatusMessage = "Error"
	case msg.result != nil && msg.result.Partial():
		m.StatusMessage = fmt.Sprintf("Project created, %d of %d files uploaded",
			msg.result.Uploaded(), len(msg.result.Items))
	default:
		m.StatusMessage = "Project created"
	}

	return m, tea.Quit
}

// View renders the UI
func (m Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("New project: %s", util.Truncate(m.Draft.Title, 60)))

	status := m.StatusMessage
	if m.Phase == PhaseSubmitting {
		status = fmt.Sprintf("%s %s", m.Spinner.View(), m.StatusMessage)
	}

	var body, help string
	switch m.Phase {
	case PhaseReview:
		body = m.Items.View()
		help = "x remove - enter submit - q quit"
	case PhaseSubmitting:
		body = m.renderProgress()
		help = "ctrl+c cancel"
	default:
		body = m.renderProgress()
	}

	sections := []string{title, statusStyle.Render(status), body}
	if m.ErrorMessage != "" {
		sections = append(sections, errorStyle.Render(m.ErrorMessage))
	}
	if help != "" {
		sections = append(sections, helpStyle.Render(help))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderProgress() string {
	items := m.Queue.Snapshot()
	if len(items) == 0 {
		return pendingStyle.Render("  No files selected.")
	}

	var b strings.Builder
	for _, it := range items {
		name := fmt.Sprintf("%s %s (%s)",
			components.KindIcon(it.File.ContentType()),
			it.File.Name(),
			util.FormatSize(it.File.Size()),
		)

		switch it.Status {
		case models.StatusUploading:
			fmt.Fprintf(&b, "%s %s\n", m.Spinner.View(), activeStyle.Render(name))
		case models.StatusUploaded:
			fmt.Fprintf(&b, "%s %s\n", okStyle.Render("✓"), okStyle.Render(name))
		case models.StatusFailed:
			fmt.Fprintf(&b, "%s %s: %s\n", failedStyle.Render("✗"), name, failedStyle.Render(it.Reason))
		default:
			fmt.Fprintf(&b, "  %s\n", pendingStyle.Render(name))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func describeEvent(e submit.Event) string {
	switch e.Kind {
	case submit.EventCreated:
		return "Project created, uploading files..."
	case submit.EventItem:
		switch e.Item.Status {
		case models.StatusUploading:
			return fmt.Sprintf("Uploading %s...", e.Item.File.Name())
		case models.StatusUploaded:
			return fmt.Sprintf("Uploaded %s", e.Item.File.Name())
		case models.StatusFailed:
			return fmt.Sprintf("Failed %s", e.Item.File.Name())
		}
	case submit.EventCanceled:
		return "Submission canceled"
	case submit.EventDone:
		return "All files processed"
	}
	return ""
}

// Messages
type eventMsg submit.Event

type submitDoneMsg struct {
	result *submit.Result
	err    error
}

// Commands
func waitForEvent(events <-chan submit.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}
