package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/roampages/internal/build"
)

func TestBuildModelProgress(t *testing.T) {
	var m tea.Model = InitBuildModel(nil)

	m, _ = m.Update(BuildEventMsg{Kind: build.EventStarted, Total: 3})
	m, _ = m.Update(BuildEventMsg{Kind: build.EventPage, Title: "Astrolabes", Status: build.StatusWritten, Done: 1, Total: 3})
	m, _ = m.Update(BuildEventMsg{Kind: build.EventPage, Title: "Drafts", Status: build.StatusFailed, Done: 2, Total: 3})

	bm := m.(buildModel)
	if bm.total != 3 || bm.done != 2 {
		t.Errorf("done/total = %d/%d, want 2/3", bm.done, bm.total)
	}
	if bm.written != 1 || bm.failed != 1 {
		t.Errorf("written = %d, failed = %d, want 1 and 1", bm.written, bm.failed)
	}

	view := m.View()
	if !strings.Contains(view, "2/3") || !strings.Contains(view, "Drafts") {
		t.Errorf("View() = %q, want progress and the current page", view)
	}
}

func TestBuildModelLongTitle(t *testing.T) {
	var m tea.Model = InitBuildModel(nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	m, _ = m.Update(BuildEventMsg{Kind: build.EventPage, Title: strings.Repeat("x", 200), Done: 1, Total: 1})

	if strings.Contains(m.View(), strings.Repeat("x", 60)) {
		t.Error("View() did not truncate a long title")
	}
}

func TestBuildModelCancel(t *testing.T) {
	cancelled := 0
	var m tea.Model = InitBuildModel(func() { cancelled++ })

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	if cancelled != 1 {
		t.Errorf("cancel called %d times, want 1", cancelled)
	}
	if !strings.Contains(m.View(), "Cancelling") {
		t.Errorf("View() = %q, want a cancelling status", m.View())
	}
}

func TestBuildModelDone(t *testing.T) {
	var m tea.Model = InitBuildModel(nil)

	result := &build.Result{Pages: 2, Written: 2, Bytes: 2048}
	m, cmd := m.Update(BuildDoneMsg{Result: result})
	if cmd == nil {
		t.Fatal("BuildDoneMsg did not quit the program")
	}
	if !strings.Contains(m.View(), "Wrote 2 page(s)") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestSummary(t *testing.T) {
	start := time.Now()
	tests := []struct {
		name   string
		result *build.Result
		err    error
		want   []string
	}{
		{
			name:   "written",
			result: &build.Result{Pages: 3, Written: 2, Unchanged: 1, Bytes: 4096, StartTime: start, EndTime: start.Add(time.Second)},
			want:   []string{"Wrote 2 page(s)", "4.1 kB", "1 unchanged", "Completed in 1s"},
		},
		{
			name:   "up to date",
			result: &build.Result{Pages: 1200, Unchanged: 1200},
			want:   []string{"1,200 page(s) up to date"},
		},
		{
			name:   "nothing selected",
			result: &build.Result{},
			want:   []string{"No pages selected"},
		},
		{
			name:   "dry run",
			result: &build.Result{Pages: 2, Diffs: map[string]string{"/out/a.html": "+a"}},
			want:   []string{"1 page(s) would change"},
		},
		{
			name:   "page errors",
			result: &build.Result{Pages: 2, Written: 1, Errors: []error{errors.New("Drafts: boom")}, Pruned: []string{"/out/old.html"}},
			want:   []string{"Drafts: boom", "1 stale page(s) pruned"},
		},
		{
			name: "failed",
			err:  errors.New("could not find page with filter name website"),
			want: []string{"Build failed", "filter name website"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summary(tt.result, tt.err)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Summary() = %q, want it to contain %q", got, want)
				}
			}
		})
	}
}

func TestStatusModel(t *testing.T) {
	var m tea.Model = InitStatusModel()
	if !strings.Contains(m.View(), "Reading state") {
		t.Errorf("View() = %q, want a loading message", m.View())
	}

	data := &StatusData{
		Graph:  "/graphs/roam.json",
		Output: "/site",
		Pages: []PageRow{
			{Title: "Astrolabes", Path: "/site/astrolabes.html", Written: time.Now().Add(-time.Hour)},
			{Title: "Old", Path: "/site/old.html", Missing: true},
		},
	}
	m, _ = m.Update(StatusMsg{Data: data})

	view := m.View()
	for _, want := range []string{"/graphs/roam.json", "2 page(s) tracked", "1 page(s) missing", "No build found"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() does not contain %q", want)
		}
	}
}

func TestStatusRows(t *testing.T) {
	rows := statusRows([]PageRow{
		{Title: "Astrolabes", Path: "/site/blog/astrolabes.html", Written: time.Now().Add(-2 * time.Hour)},
		{Title: "Old", Path: "/site/old.html", Missing: true},
	}, "/site/")

	if rows[0][1] != "blog/astrolabes.html" {
		t.Errorf("path = %q, want it relative to the output", rows[0][1])
	}
	if rows[0][2] != "2 hours ago" {
		t.Errorf("written = %q, want %q", rows[0][2], "2 hours ago")
	}
	if rows[1][2] != "missing" {
		t.Errorf("written = %q, want missing", rows[1][2])
	}
}

func TestStatusModelError(t *testing.T) {
	var m tea.Model = InitStatusModel()
	m, _ = m.Update(StatusMsg{Err: errors.New("bad state")})
	if !strings.Contains(m.View(), "bad state") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestStatusTable(t *testing.T) {
	var m tea.Model = InitStatusModel()
	m, _ = m.Update(StatusMsg{Data: &StatusData{
		Output: "/site",
		Pages:  []PageRow{{Title: "Astrolabes", Path: "/site/astrolabes.html", Written: time.Now()}},
	}})

	view := m.View()
	for _, want := range []string{"Page", "Path", "Written", "Astrolabes", "astrolabes.html"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() does not contain %q", want)
		}
	}
}
