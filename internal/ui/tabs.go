package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"github.com/ytget/magic-animator/internal/model"
)

// TabController keeps exactly one of the frames and output views visible
type TabController struct {
	tabs     *container.AppTabs
	items    map[model.View]*container.TabItem
	current  model.View
	onChange func(model.View)
}

// NewTabController creates the tab set with the frames view selected
func NewTabController(frames, output fyne.CanvasObject, localization *Localization) *TabController {
	tc := &TabController{
		items:   make(map[model.View]*container.TabItem, 2),
		current: model.ViewFrames,
	}

	tc.items[model.ViewFrames] = container.NewTabItem(localization.GetText(KeyTabFrames), frames)
	tc.items[model.ViewOutput] = container.NewTabItem(localization.GetText(KeyTabOutput), output)

	tc.tabs = container.NewAppTabs(tc.items[model.ViewFrames], tc.items[model.ViewOutput])
	tc.tabs.SetTabLocation(container.TabLocationTop)
	tc.tabs.OnSelected = tc.onSelected
	tc.tabs.Select(tc.items[model.ViewFrames])

	return tc
}

// Container returns the tab set
func (tc *TabController) Container() fyne.CanvasObject {
	return tc.tabs
}

// Current returns the visible view
func (tc *TabController) Current() model.View {
	return tc.current
}

// Select shows the given view
func (tc *TabController) Select(view model.View) {
	item, ok := tc.items[view]
	if !ok {
		return
	}
	tc.tabs.Select(item)
	tc.current = view
}

// SetOnChanged sets the callback for view changes, including user clicks
func (tc *TabController) SetOnChanged(callback func(model.View)) {
	tc.onChange = callback
}

// RefreshTexts relabels the tabs after a language change
func (tc *TabController) RefreshTexts(localization *Localization) {
	tc.items[model.ViewFrames].Text = localization.GetText(KeyTabFrames)
	tc.items[model.ViewOutput].Text = localization.GetText(KeyTabOutput)
	tc.tabs.Refresh()
}

func (tc *TabController) onSelected(item *container.TabItem) {
	for view, candidate := range tc.items {
		if candidate == item {
			tc.current = view
			if tc.onChange != nil {
				tc.onChange(view)
			}
			return
		}
	}
}
