// Package ui renders the todo list in the terminal and dispatches user
// actions to the client state layer.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoapp/internal/client"
	"todoapp/internal/todo"
)

// listItem adapts a todo.Todo to bubbles/list.Item.
type listItem struct {
	todo todo.Todo
}

func (i listItem) TitleText() string {
	box := boxUnchecked
	if i.todo.Completed {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.todo.Title)
}

func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders each todo on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Title
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	if it.todo.ID < 0 {
		text += mutedStyle.Render(" (local)")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type model struct {
	state *client.State
	list  list.Model

	adding  bool
	editing bool
	editID  int64
	ti      textinput.Model
	inpErr  string

	lastErr string
}

// Run loads the list from the server and starts the interactive UI.
// A failed initial load still starts the UI, in degraded mode.
func Run(st *client.State) error {
	_ = st.Load(context.Background())

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, reloadBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, reloadBind} }

	m := model{state: st, list: l}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New todo title..."
	m.ti.CharLimit = 200
	m.sync()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// sync rebuilds the visible list from the state layer, which stays
// authoritative for ordering.
func (m *model) sync() {
	todos := m.state.Todos()
	items := make([]list.Item, 0, len(todos))
	done := 0
	for _, t := range todos {
		if t.Completed {
			done++
		}
		items = append(items, listItem{todo: t})
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(todos)-done,
		accentStyle.Render("Total"), len(todos),
	)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) selected() (todo.Todo, bool) {
	i := m.list.Index()
	items := m.list.Items()
	if i < 0 || i >= len(items) {
		return todo.Todo{}, false
	}
	it, ok := items[i].(listItem)
	return it.todo, ok
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	if m.adding || m.editing {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch x.String() {
			case "enter":
				title := strings.TrimSpace(m.ti.Value())
				if title == "" {
					m.inpErr = "Title cannot be empty"
					return m, nil
				}
				var err error
				if m.adding {
					err = m.state.Create(ctx, title)
				} else {
					err = m.state.Update(ctx, m.editID, title)
				}
				if err != nil {
					m.lastErr = err.Error()
				}
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding, m.editing, m.inpErr = false, false, ""
				m.sync()
				return m, nil
			case "esc":
				m.adding, m.editing, m.inpErr = false, false, ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if t, ok := m.selected(); ok {
				if err := m.state.Toggle(ctx, t.ID); err != nil {
					m.lastErr = err.Error()
				}
				m.sync()
			}
			return m, nil
		case "d":
			if t, ok := m.selected(); ok {
				if err := m.state.Delete(ctx, t.ID); err != nil {
					m.lastErr = err.Error()
				}
				m.sync()
			}
			return m, nil
		case "a":
			m.adding = true
			m.ti.SetValue("")
			m.ti.Placeholder = "New todo title..."
			m.ti.Focus()
			return m, nil
		case "e":
			if t, ok := m.selected(); ok {
				m.editing = true
				m.editID = t.ID
				m.ti.SetValue(t.Title)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit todo title..."
				m.ti.Focus()
			}
			return m, nil
		case "r":
			if err := m.state.Load(ctx); err != nil {
				m.lastErr = err.Error()
			} else {
				m.lastErr = ""
			}
			m.sync()
			return m, nil
		}
	case tea.WindowSizeMsg:
		h := msg.Height - 4
		if m.state.Degraded() {
			h -= 2
		}
		m.list.SetSize(msg.Width-2, h)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	if m.state.Degraded() {
		b.WriteString(bannerStyle.Render("⚠ offline — changes are not being saved"))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	if m.adding || m.editing {
		title := "Add new todo"
		if m.editing {
			title = "Edit todo"
		}
		if m.inpErr != "" {
			title += " — " + errorStyle.Render(m.inpErr)
		}
		b.WriteString("\n" + inputBarStyle.Render(title+"\n"+m.ti.View()))
	}
	if m.lastErr != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.lastErr))
	}
	return b.String()
}
