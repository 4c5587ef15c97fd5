package tui

import (
	"stockroom-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// RunSpecEditor opens the interactive specification editor for one item.
// The editor works on a detached copy of the item's specs; cancelling leaves
// the store untouched, saving persists and appends the item.set_specs event.
func RunSpecEditor(db *store.DB, s store.Store, userID, itemID string) error {
	m, err := newEditorModel(db, s, userID, itemID)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
