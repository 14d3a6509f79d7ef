package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

// institutionItem is a single row in the institution picker.
type institutionItem struct {
	ID   rest.ID
	Name string
	City string
}

// pickerModel is a minimal scrollable list for selecting an institution.
type pickerModel struct {
	items    []institutionItem
	cursor   int
	offset   int
	height   int
	selected int // index into items, -1 until a choice is made
	quitting bool
}

func newPickerModel(items []institutionItem) pickerModel {
	return pickerModel{
		items:    items,
		height:   10,
		selected: -1,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Leave room for the title and help line.
		m.height = msg.Height - 4
		if m.height < 3 {
			m.height = 3
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
			return m, nil
		case "enter":
			m.selected = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.quitting || m.selected >= 0 {
		return ""
	}

	view := StyleTitle.Render("Select an institution") + "\n\n"

	end := m.offset + m.height
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		item := m.items[i]
		line := fmt.Sprintf("%-8s %s", item.ID.String(), item.Name)
		if item.City != "" {
			line += " " + StyleDim.Render("("+item.City+")")
		}
		if i == m.cursor {
			view += StyleHighlight.Render("> "+line) + "\n"
		} else {
			view += "  " + line + "\n"
		}
	}

	view += "\n" + StyleDim.Render("↑/↓ navigate · enter select · q quit")
	return view
}

// pickInstitution runs the interactive picker and returns the chosen
// institution. ok is false when the user dismissed the picker.
func pickInstitution(items []institutionItem) (institutionItem, bool, error) {
	program := tea.NewProgram(newPickerModel(items))
	final, err := program.Run()
	if err != nil {
		return institutionItem{}, false, err
	}

	m, ok := final.(pickerModel)
	if !ok || m.selected < 0 {
		return institutionItem{}, false, nil
	}
	return m.items[m.selected], true, nil
}
