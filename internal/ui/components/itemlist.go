package components

import (
	"fmt"

	"folio/internal/models"
	"folio/internal/util"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// KindIcon returns a short marker for the kind of a content type
func KindIcon(contentType string) string {
	switch models.KindOf(contentType) {
	case models.KindImage:
		return "[img]"
	case models.KindVideo:
		return "[vid]"
	default:
		return "[doc]"
	}
}

// UploadEntry represents an upload item in the list
type UploadEntry struct {
	Item models.UploadItem
}

// FilterValue returns the filter value for the entry
func (e UploadEntry) FilterValue() string {
	return e.Item.File.Name()
}

// Title returns the title for the entry
func (e UploadEntry) Title() string {
	return fmt.Sprintf("%s %s", KindIcon(e.Item.File.ContentType()), e.Item.File.Name())
}

// Description returns the description for the entry
func (e UploadEntry) Description() string {
	desc := fmt.Sprintf("%s - %s", e.Item.Status, util.FormatSize(e.Item.File.Size()))
	if e.Item.Reason != "" {
		desc += " - " + e.Item.Reason
	}
	return desc
}

// ItemListModel lists the queued upload items
type ItemListModel struct {
	List list.Model
}

// NewItemListModel creates a new item list model
func NewItemListModel(width, height int) ItemListModel {
	listModel := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	listModel.Title = "Files to upload"
	listModel.SetShowStatusBar(false)
	listModel.SetShowHelp(false)
	listModel.SetFilteringEnabled(false)
	listModel.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true).
		MarginLeft(2)

	return ItemListModel{List: listModel}
}

// SetItems replaces the entries, keeping the cursor in range
func (m *ItemListModel) SetItems(items []models.UploadItem) {
	entries := make([]list.Item, len(items))
	for i, it := range items {
		entries[i] = UploadEntry{Item: it}
	}
	m.List.SetItems(entries)

	if n := len(entries); n > 0 && m.List.Index() >= n {
		m.List.Select(n - 1)
	}
}

// Selected returns the item under the cursor
func (m ItemListModel) Selected() (models.UploadItem, bool) {
	if entry, ok := m.List.SelectedItem().(UploadEntry); ok {
		return entry.Item, true
	}
	return models.UploadItem{}, false
}

// SetSize resizes the list
func (m *ItemListModel) SetSize(width, height int) {
	m.List.SetSize(width, height)
}

// Update handles item list updates
func (m ItemListModel) Update(msg tea.Msg) (ItemListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// View renders the item list
func (m ItemListModel) View() string {
	return m.List.View()
}
