package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"stockroom-cli/internal/mutate"
	"stockroom-cli/internal/specs"
	"stockroom-cli/internal/store"
)

const (
	colKey = iota
	colValue
)

// editorRow pairs one specs.Row with its two text inputs. The row id is the
// join key; indices are only render order.
type editorRow struct {
	id    string
	key   textinput.Model
	value textinput.Model
}

type editorModel struct {
	db     *store.DB
	st     store.Store
	userID string
	itemID string

	itemName string
	descMD   string

	// list is the authoritative ordered state; rows mirrors it for
	// rendering. Every input edit writes through to list, then dups is
	// recomputed so flags can never go stale.
	list *specs.List
	rows []editorRow
	dups map[string]bool

	cursor int
	col    int

	saving bool
	errMsg string
	done   bool

	width  int
	height int
}

type saveDoneMsg struct {
	err error
}

func newKeyInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "key"
	ti.CharLimit = 120
	ti.SetValue(value)
	return ti
}

func newValueInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "value"
	ti.CharLimit = 500
	ti.SetValue(value)
	return ti
}

func newEditorModel(db *store.DB, st store.Store, userID, itemID string) (*editorModel, error) {
	it, ok := db.FindItem(itemID)
	if !ok {
		return nil, fmt.Errorf("item not found: %s", itemID)
	}

	// Detached copy: edits live in the list until an explicit save.
	list := specs.FromEntries(it.Specs)

	m := &editorModel{
		db:       db,
		st:       st,
		userID:   userID,
		itemID:   itemID,
		itemName: it.Name,
		descMD:   it.Description,
		list:     list,
		width:    80,
		height:   24,
	}
	for _, r := range list.Rows() {
		m.rows = append(m.rows, editorRow{id: r.ID, key: newKeyInput(r.Key), value: newValueInput(r.Value)})
	}
	if len(m.rows) == 0 {
		m.addRow()
	}
	m.refreshDups()
	m.focusCurrent()
	return m, nil
}

func (m *editorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *editorModel) refreshDups() {
	m.dups = specs.Duplicates(m.list.Rows())
}

func (m *editorModel) addRow() {
	r := m.list.Add()
	m.rows = append(m.rows, editorRow{id: r.ID, key: newKeyInput(""), value: newValueInput("")})
	m.cursor = len(m.rows) - 1
	m.col = colKey
}

func (m *editorModel) removeCurrentRow() {
	if len(m.rows) == 0 {
		return
	}
	id := m.rows[m.cursor].id
	m.list.RemoveAt(id)
	m.rows = append(m.rows[:m.cursor], m.rows[m.cursor+1:]...)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if len(m.rows) == 0 {
		m.addRow()
	}
}

// moveCurrentRow reorders by neighbor id, so the same command serves
// keyboard moves here and programmatic moves in the CLI.
func (m *editorModel) moveCurrentRow(up bool) {
	target := m.cursor - 1
	if !up {
		target = m.cursor + 1
	}
	if target < 0 || target >= len(m.rows) {
		return
	}
	srcID := m.rows[m.cursor].id
	dstID := m.rows[target].id
	if !m.list.Reorder(srcID, dstID) {
		return
	}
	m.rows[m.cursor], m.rows[target] = m.rows[target], m.rows[m.cursor]
	m.cursor = target
}

func (m *editorModel) focusCurrent() {
	for i := range m.rows {
		m.rows[i].key.Blur()
		m.rows[i].value.Blur()
	}
	if len(m.rows) == 0 {
		return
	}
	if m.col == colKey {
		m.rows[m.cursor].key.Focus()
	} else {
		m.rows[m.cursor].value.Focus()
	}
}

func (m *editorModel) saveCmd() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		res, err := mutate.ApplySpecs(m.db, m.userID, m.itemID, list)
		if err != nil {
			return saveDoneMsg{err: err}
		}
		if res.Changed {
			if err := m.st.Save(m.db); err != nil {
				return saveDoneMsg{err: err}
			}
			_ = m.st.AppendEvent(m.userID, "item.set_specs", m.itemID, res.EventPayload)
		}
		return saveDoneMsg{}
	}
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case saveDoneMsg:
		m.saving = false
		if msg.err != nil {
			// Keep the in-memory rows so the user can retry without
			// re-entering anything.
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if m.saving {
			// The save control is the only lock: ignore input while a
			// save is in flight.
			return m, nil
		}
		switch msg.String() {
		case "esc", "ctrl+c":
			// Cancel: discard the detached copy, write nothing.
			m.done = true
			return m, tea.Quit

		case "ctrl+s":
			m.saving = true
			m.errMsg = ""
			return m, m.saveCmd()

		case "ctrl+n":
			m.addRow()
			m.refreshDups()
			m.focusCurrent()
			return m, nil

		case "ctrl+d":
			m.removeCurrentRow()
			m.refreshDups()
			m.focusCurrent()
			return m, nil

		case "alt+up":
			m.moveCurrentRow(true)
			m.focusCurrent()
			return m, nil

		case "alt+down":
			m.moveCurrentRow(false)
			m.focusCurrent()
			return m, nil

		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			m.focusCurrent()
			return m, nil

		case "down":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
			m.focusCurrent()
			return m, nil

		case "tab":
			if m.col == colKey {
				m.col = colValue
			} else if m.cursor < len(m.rows)-1 {
				m.col = colKey
				m.cursor++
			} else {
				m.col = colKey
			}
			m.focusCurrent()
			return m, nil

		case "shift+tab":
			if m.col == colValue {
				m.col = colKey
			} else if m.cursor > 0 {
				m.col = colValue
				m.cursor--
			}
			m.focusCurrent()
			return m, nil

		case "enter":
			// Enter on the last row appends; elsewhere it advances.
			if m.cursor == len(m.rows)-1 && m.col == colValue {
				m.addRow()
				m.refreshDups()
			} else if m.col == colKey {
				m.col = colValue
			} else {
				m.cursor++
				m.col = colKey
			}
			m.focusCurrent()
			return m, nil
		}
	}

	// Route everything else into the focused input, then write through.
	if len(m.rows) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	row := &m.rows[m.cursor]
	if m.col == colKey {
		row.key, cmd = row.key.Update(msg)
		m.list.SetKey(row.id, row.key.Value())
	} else {
		row.value, cmd = row.value.Update(msg)
		m.list.SetValue(row.id, row.value.Value())
	}
	m.refreshDups()
	return m, cmd
}

func (m *editorModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Specifications"))
	b.WriteString(" ")
	b.WriteString(crumbStyle.Render(fmt.Sprintf("%s (%s)", m.itemName, m.itemID)))
	b.WriteString("\n")

	if m.descMD != "" {
		desc := renderMarkdown(m.descMD, m.width-2)
		// One-line preview keeps the form on screen.
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		b.WriteString(crumbStyle.Render(ansi.Truncate(desc, m.width-2, "…")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	keyWidth := 24
	for i, row := range m.rows {
		mark := "  "
		if i == m.cursor {
			mark = cursorMarkStyle.Render("> ")
		}
		keyView := row.key.View()
		valView := row.value.View()
		line := fmt.Sprintf("%s%-*s  %s", mark, keyWidth, ansi.Truncate(keyView, keyWidth, "…"), valView)
		b.WriteString(ansi.Truncate(line, m.width, "…"))
		if m.dups[row.id] {
			b.WriteString("  ")
			b.WriteString(dupMarkStyle.Render("duplicate key"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(statusStyle.Render("saving…"))
	case m.errMsg != "":
		b.WriteString(errorStyle.Render("save failed: " + m.errMsg))
	case len(m.dups) > 0:
		b.WriteString(dupMarkStyle.Render("duplicate keys present; saving keeps both entries"))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/tab move · ctrl+n add · ctrl+d delete · alt+↑/↓ reorder · ctrl+s save · esc cancel"))

	return b.String()
}
