package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
	"github.com/pi-bie/ocitysmap/pkg/render/proof"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listDetailStyle = lipgloss.NewStyle().Foreground(colorGray).PaddingLeft(2)
)

// Page entry kinds besides the front matter kinds.
const (
	entryMap   = "map"
	entryIndex = "index"
)

// pageEntry is one printed page of a plan as shown in the page list.
type pageEntry struct {
	// Sheet is the position of the page in the printed document, from 1.
	Sheet     int
	Kind      string
	Label     string
	Detail    string
	Neighbors string
	Items     int
}

// planEntries lists the pages of a plan in print order.
func planEntries(plan *pipeline.Plan) []pageEntry {
	entries := make([]pageEntry, 0, plan.PageCount())
	add := func(e pageEntry) {
		e.Sheet = len(entries) + 1
		entries = append(entries, e)
	}

	for _, fp := range plan.FrontMatter {
		e := pageEntry{Kind: fp.Kind, Label: fp.Label}
		if fp.BBox != nil {
			e.Detail = fp.BBox.String()
		}
		add(e)
	}
	for _, mp := range plan.Pages {
		bbox := mp.Inner
		if bbox == (geo.BoundingBox{}) {
			bbox = plan.BBox
		}
		detail := bbox.String()
		if mp.Grid != nil {
			detail += fmt.Sprintf(", grid %dx%d", len(mp.Grid.HorizontalLabels), len(mp.Grid.VerticalLabels))
		}
		add(pageEntry{
			Kind:      entryMap,
			Label:     mp.Label,
			Detail:    detail,
			Neighbors: proof.NeighborsText(mp.Neighbors),
			Items:     mp.IndexItems,
		})
	}
	for _, a := range plan.IndexPages {
		items := 0
		for _, b := range a.Blocks {
			if b.Kind == layout.BlockItem {
				items++
			}
		}
		add(pageEntry{
			Kind:   entryIndex,
			Label:  a.PageLabel,
			Detail: fmt.Sprintf("%d columns, %s", a.Columns, a.Style),
			Items:  items,
		})
	}
	return entries
}

// pagesTable renders entries as a table, marking the cursor row when
// cursor is not negative.
func pagesTable(entries []pageEntry, cursor int) *table.Table {
	t := newTable("", "Page", "Kind", "Label", "Neighbors", "Entries")
	for i, e := range entries {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		items := "—"
		if e.Items > 0 {
			items = strconv.Itoa(e.Items)
		}
		neighbors := e.Neighbors
		if neighbors == "" {
			neighbors = "—"
		}
		t.Row(mark, strconv.Itoa(e.Sheet), e.Kind, e.Label, neighbors, items)
	}
	return t
}

// =============================================================================
// PageListModel - Interactive page browser
// =============================================================================

// PageListModel is the bubbletea model browsing the pages of a plan.
type PageListModel struct {
	Title   string
	Entries []pageEntry
	Cursor  int
	Height  int
	Offset  int
}

// NewPageListModel creates a page browser for plan.
func NewPageListModel(plan *pipeline.Plan) PageListModel {
	title := plan.Title
	if title == "" {
		title = fmt.Sprintf("%s map", plan.Mode)
	}
	return PageListModel{
		Title:   title,
		Entries: planEntries(plan),
		Height:  15,
	}
}

func (m PageListModel) Init() tea.Cmd {
	return nil
}

func (m PageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Entries)-1, 0)
			m.Offset = max(len(m.Entries)-m.Height, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 9
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m PageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  no pages"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Entries))
	b.WriteString(pagesTable(m.Entries[m.Offset:end], m.Cursor-m.Offset).Render())
	b.WriteString("\n")

	if e := m.Entries[m.Cursor]; e.Detail != "" {
		b.WriteString(listDetailStyle.Render(e.Detail))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}
