package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/magic-animator/internal/model"
)

func TestTabControllerStartsOnFrames(t *testing.T) {
	test.NewTempApp(t)
	tc := NewTabController(widget.NewLabel("frames"), widget.NewLabel("output"), NewLocalization())

	if tc.Current() != model.ViewFrames {
		t.Errorf("Expected initial view %s, got %s", model.ViewFrames, tc.Current())
	}
}

func TestTabControllerSelect(t *testing.T) {
	test.NewTempApp(t)
	tc := NewTabController(widget.NewLabel("frames"), widget.NewLabel("output"), NewLocalization())

	var changes []model.View
	tc.SetOnChanged(func(view model.View) {
		changes = append(changes, view)
	})

	tests := []struct {
		name string
		view model.View
		want model.View
	}{
		{"output", model.ViewOutput, model.ViewOutput},
		{"frames", model.ViewFrames, model.ViewFrames},
		{"unknown view keeps current", model.View("timeline"), model.ViewFrames},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc.Select(tt.view)
			if tc.Current() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, tc.Current())
			}
		})
	}

	if len(changes) != 2 {
		t.Errorf("Expected 2 change notifications, got %d", len(changes))
	}
}

func TestTabControllerRefreshTexts(t *testing.T) {
	test.NewTempApp(t)
	loc := NewLocalization()
	tc := NewTabController(widget.NewLabel("frames"), widget.NewLabel("output"), loc)

	loc.SetLanguage("ru")
	tc.RefreshTexts(loc)

	if got := tc.items[model.ViewFrames].Text; got != loc.GetText(KeyTabFrames) {
		t.Errorf("Expected localized frames tab, got %q", got)
	}
	if got := tc.items[model.ViewOutput].Text; got != loc.GetText(KeyTabOutput) {
		t.Errorf("Expected localized output tab, got %q", got)
	}
}
