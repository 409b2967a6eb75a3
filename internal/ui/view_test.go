package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"todo/internal/service"
	"todo/internal/todolist"
	"todo/internal/ui"
)

func TestRender_Loading(t *testing.T) {
	got := ui.Render(todolist.State{}, 0, false, ui.PlainStyles())
	if !strings.Contains(got, "Loading...") {
		t.Errorf("expected loading line:\n%s", got)
	}
}

func TestRender_Empty(t *testing.T) {
	got := ui.Render(todolist.State{Loaded: true}, 0, false, ui.PlainStyles())
	if !strings.Contains(got, "No tasks yet.") {
		t.Errorf("expected empty line:\n%s", got)
	}
	if !strings.Contains(got, "Add a new task") {
		t.Errorf("expected placeholder:\n%s", got)
	}
}

func TestRender_PreservesStoreOrder(t *testing.T) {
	s := todolist.State{
		Loaded: true,
		Tasks: []service.Task{
			{ID: "b", Text: "second"},
			{ID: "a", Text: "first"},
		},
	}
	got := ui.Render(s, 0, false, ui.PlainStyles())

	if strings.Index(got, "second") > strings.Index(got, "first") {
		t.Errorf("rows reordered:\n%s", got)
	}
}

func TestRender_CursorAndEditRow(t *testing.T) {
	s := todolist.State{
		Loaded: true,
		Tasks: []service.Task{
			{ID: "1", Text: "Buy milk"},
			{ID: "2", Text: "Walk dog"},
		},
		EditingID:    "2",
		EditingDraft: "Walk cat",
	}
	got := ui.Render(s, 1, false, ui.PlainStyles())

	if !strings.Contains(got, "  [ ] Buy milk") {
		t.Errorf("unselected row wrong:\n%s", got)
	}
	if !strings.Contains(got, "> ✎ Walk cat_") {
		t.Errorf("edit row wrong:\n%s", got)
	}
	if strings.Contains(got, "Walk dog") {
		t.Errorf("edit row should show the buffer only:\n%s", got)
	}
	if !strings.Contains(got, "enter save | esc cancel") {
		t.Errorf("edit help missing:\n%s", got)
	}
}

func TestRender_InputFocusHidesCursor(t *testing.T) {
	s := todolist.State{
		Loaded: true,
		Tasks:  []service.Task{{ID: "1", Text: "Buy milk"}},
		Draft:  "Walk",
	}
	got := ui.Render(s, 0, true, ui.PlainStyles())

	if !strings.Contains(got, "> + Walk_") {
		t.Errorf("focused input wrong:\n%s", got)
	}
	if strings.Contains(got, "> [ ]") {
		t.Errorf("row cursor should be hidden while typing:\n%s", got)
	}
}

func TestIsTTY(t *testing.T) {
	if ui.IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
