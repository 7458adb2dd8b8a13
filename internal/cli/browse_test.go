package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/filter"
	"github.com/matzehuels/rowgraph/pkg/mapping"
	"github.com/matzehuels/rowgraph/pkg/materialize"
)

func browseFixture(t *testing.T) (*materialize.Result, loadFunc, *[]*filter.Selection) {
	t.Helper()
	cfg, err := mapping.Decode(strings.NewReader(testMapping))
	if err != nil {
		t.Fatal(err)
	}
	data, err := dataset.Read(strings.NewReader(testData))
	if err != nil {
		t.Fatal(err)
	}

	var calls []*filter.Selection
	load := func(sel *filter.Selection) (*materialize.Result, error) {
		calls = append(calls, sel)
		return materialize.Run(cfg, filter.Apply(data, sel, cfg.Structural()), nil), nil
	}
	res, _ := load(nil)
	calls = nil
	return res, load, &calls
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m BrowseModel, msg tea.Msg) (BrowseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(BrowseModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return bm, cmd
}

func TestBrowseRows(t *testing.T) {
	res, load, _ := browseFixture(t)
	m := NewBrowseModel(res, nil, load)

	if len(m.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.Rows))
	}
	want := []struct {
		label string
		depth int
	}{{"Pump", 0}, {"Impeller", 1}, {"Valve", 0}}
	for i, w := range want {
		if got := m.Rows[i]; got.node.Data.Label != w.label || got.depth != w.depth {
			t.Errorf("row %d = %s@%d, want %s@%d", i, got.node.Data.Label, got.depth, w.label, w.depth)
		}
	}
}

func TestBrowseNavigation(t *testing.T) {
	res, load, _ := browseFixture(t)
	m := NewBrowseModel(res, nil, load)
	m.Height = 2

	m, _ = update(t, m, key("up"))
	if m.Cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.Cursor)
	}
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("down"))
	if m.Cursor != 2 || m.Offset != 1 {
		t.Errorf("cursor, offset = %d, %d; want 2, 1", m.Cursor, m.Offset)
	}
	m, _ = update(t, m, key("down"))
	if m.Cursor != 2 {
		t.Errorf("cursor moved past last row: %d", m.Cursor)
	}
	m, _ = update(t, m, key("k"))
	m, _ = update(t, m, key("k"))
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("cursor, offset = %d, %d; want 0, 0", m.Cursor, m.Offset)
	}

	if _, cmd := update(t, m, key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestBrowseFocusAndClear(t *testing.T) {
	res, load, calls := browseFixture(t)
	m := NewBrowseModel(res, nil, load)

	if _, cmd := update(t, m, key("backspace")); cmd != nil {
		t.Error("backspace without a selection should do nothing")
	}

	// Focus the pump: the selection covers it and its impeller.
	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("enter should reload")
	}
	m, _ = update(t, m, cmd())
	if len(*calls) != 1 || !(*calls)[0].Active() {
		t.Fatalf("load calls = %v", *calls)
	}
	if got := (*calls)[0].FilterObject["parts"]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("selection = %v, want [a b]", got)
	}
	if len(m.Rows) != 2 || !m.Selection.Active() {
		t.Errorf("after focus: %d rows, selection %+v", len(m.Rows), m.Selection)
	}
	if !strings.Contains(m.View(), "filtered to 1 categories") {
		t.Errorf("view should report the filter:\n%s", m.View())
	}

	m, cmd = update(t, m, key("backspace"))
	if cmd == nil {
		t.Fatal("backspace should reload")
	}
	m, _ = update(t, m, cmd())
	if (*calls)[1] != nil || m.Selection != nil || len(m.Rows) != 3 {
		t.Errorf("after clear: %d rows, selection %+v", len(m.Rows), m.Selection)
	}
}

func TestBrowseLoadError(t *testing.T) {
	res, load, _ := browseFixture(t)
	m := NewBrowseModel(res, nil, load)

	m, _ = update(t, m, loadedMsg{err: errors.New("boom")})
	if m.Err == nil || len(m.Rows) != 3 {
		t.Errorf("error should keep the previous rows: err=%v rows=%d", m.Err, len(m.Rows))
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("view should show the error")
	}
}
