package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/shhac/anchortea/internal/config"
	"github.com/shhac/anchortea/internal/overlay"
	"github.com/shhac/anchortea/internal/teahost"
)

// anchor is a trigger together with the overlay it opens. Exactly one of
// menu, tip or sel is set, matching the trigger kind.
type anchor struct {
	page    string
	trigger Trigger
	panel   *teahost.Panel

	menu *MenuModel
	tip  *TooltipModel
	sel  *SelectModel

	// Dropdowns carry a sub-menu anchored to the highlighted item.
	sub       *teahost.Panel
	subMenu   *MenuModel
	subParent int
}

func (a *anchor) name() string { return a.page + "/" + a.trigger.ID }

// open reports whether the overlay was asked to open and has not started
// closing.
func (a *anchor) open() bool {
	return a.panel.Overlay().IsOpen()
}

func (a *anchor) subOpen() bool {
	return a.sub != nil && a.sub.Overlay().IsOpen()
}

// button renders the trigger label.
func (a *anchor) button() string {
	label := a.trigger.Label
	switch a.trigger.Kind {
	case config.KindDropdown:
		label += " ▾"
	case config.KindSelect:
		if chosen := a.sel.Labels(); len(chosen) > 0 {
			label += ": " + strings.Join(chosen, ", ")
		}
		label += " ▾"
	}
	return " " + label + " "
}

// anchors owns every overlay of the demo. It lives behind a pointer so the
// render closures handed to the engine stay valid while the bubbletea
// model is copied.
type anchors struct {
	stack  *teahost.Stack
	all    []*anchor
	byName map[string]*anchor

	warnings   []error
	chosen     []tea.Msg
	assertions bool
}

// newAnchors builds the overlays of every page. With assertions on, engine
// logic errors panic instead of being logged.
func newAnchors(cfg *config.Config, pages []Page, logger *log.Logger, assertions bool) (*anchors, error) {
	as := &anchors{
		stack:      teahost.NewStack(),
		byName:     make(map[string]*anchor),
		assertions: assertions,
	}
	for _, p := range pages {
		for _, t := range p.Triggers {
			a := &anchor{page: p.Name, trigger: t}
			if err := as.build(a, cfg, logger); err != nil {
				as.stack.Destroy()
				return nil, err
			}
			as.all = append(as.all, a)
			as.byName[a.name()] = a
		}
	}
	return as, nil
}

func (as *anchors) build(a *anchor, cfg *config.Config, logger *log.Logger) error {
	kind := a.trigger.Kind
	ocfg, err := cfg.OverlayConfig(kind)
	if err != nil {
		return err
	}
	opts := []overlay.Option{
		overlay.WithLogger(logger.With("kind", kind, "trigger", a.name())),
		overlay.WithOnWarning(as.warn),
		overlay.WithAssertions(as.assertions),
	}
	if kind == config.KindSelect {
		// The option list is full again by the time the trigger shows it.
		opts = append(opts, overlay.WithOnClosed(func() { a.sel.ResetFilter() }))
	}

	var render func() string
	switch kind {
	case config.KindDropdown:
		a.menu = NewMenuModel(a.trigger.Items)
		render = func() string {
			a.menu.SetMinWidth(a.panel.Overlay().TriggerWidth())
			return a.menu.View()
		}
	case config.KindSelect:
		a.sel = NewSelectModel(a.trigger.Options, a.trigger.Multi)
		render = func() string {
			a.sel.SetMinWidth(a.panel.Overlay().TriggerWidth())
			return a.sel.View()
		}
	case config.KindTooltip:
		a.tip = &TooltipModel{}
		a.tip.SetText(a.trigger.Tip)
		render = a.tip.View
	}

	a.panel, err = teahost.NewPanel(a.name(), ocfg, render, opts...)
	if err != nil {
		return err
	}
	a.panel.Host().SetFrameInterval(cfg.FrameInterval())
	a.panel.SetClosingStyle(panelClosingStyle)
	as.stack.Add(a.panel)

	switch kind {
	case config.KindDropdown:
		if err := as.buildSub(a, cfg, logger); err != nil {
			return err
		}
		a.panel.OnChange(func(s overlay.State) {
			switch s {
			case overlay.Mounting:
				a.menu.Reset()
			case overlay.Closing:
				a.sub.Overlay().Close()
			}
		})
	case config.KindSelect:
		a.panel.OnChange(func(s overlay.State) {
			if s == overlay.Closing {
				a.sel.Blur()
			}
		})
	}
	return nil
}

func (as *anchors) buildSub(a *anchor, cfg *config.Config, logger *log.Logger) error {
	scfg, err := cfg.OverlayConfig(config.KindSubmenu)
	if err != nil {
		return err
	}
	a.subMenu = NewMenuModel(nil)
	name := a.name() + "/sub"
	a.sub, err = teahost.NewPanel(name, scfg, a.subMenu.View,
		overlay.WithLogger(logger.With("kind", config.KindSubmenu, "trigger", name)),
		overlay.WithOnWarning(as.warn),
		overlay.WithAssertions(as.assertions))
	if err != nil {
		return err
	}
	a.sub.Host().SetFrameInterval(cfg.FrameInterval())
	a.sub.SetClosingStyle(panelClosingStyle)
	// Presses inside the sub-menu belong to the parent dropdown.
	a.panel.Host().TreatAsInside(a.sub.Contains)
	as.stack.Add(a.sub)
	return nil
}

func (as *anchors) warn(err error) {
	as.warnings = append(as.warnings, err)
}

// drain returns and forgets the warnings and chosen-item messages gathered
// since the last call.
func (as *anchors) drain() ([]error, []tea.Msg) {
	w, c := as.warnings, as.chosen
	as.warnings, as.chosen = nil, nil
	return w, c
}

func (as *anchors) get(page, id string) *anchor {
	return as.byName[page+"/"+id]
}

// showPage hides the panels of every other page. Their overlays keep
// their state, so a panel left open is drawn again when its page returns.
func (as *anchors) showPage(page string) {
	for _, a := range as.all {
		a.panel.SetHidden(a.page != page)
		if a.sub != nil {
			a.sub.SetHidden(a.page != page)
		}
	}
}

// active returns the open dropdown or select on page, if any.
func (as *anchors) active(page string) *anchor {
	for _, a := range as.all {
		if a.page == page && a.trigger.Kind != config.KindTooltip && a.open() {
			return a
		}
	}
	return nil
}

// openSub opens the sub-menu of the highlighted dropdown item.
func (as *anchors) openSub(a *anchor) bool {
	item, ok := a.menu.Current()
	if !ok || len(item.Sub) == 0 {
		return false
	}
	if a.subOpen() && a.subParent == a.menu.Cursor() {
		return true
	}
	if a.subOpen() {
		// Another item's sub-menu is showing. Closing first makes the
		// Open below start a fresh measurement at the new row.
		a.sub.Overlay().Close()
	}
	a.subParent = a.menu.Cursor()
	a.subMenu.SetItems(item.Sub)
	as.placeSub(a)
	a.sub.Overlay().Open()
	return true
}

// placeSub points the sub-menu host at the row of its parent item.
func (as *anchors) placeSub(a *anchor) {
	if a.sub == nil {
		return
	}
	r, ok := a.panel.Bounds()
	if !ok {
		return
	}
	a.sub.Host().SetTrigger(overlay.Rect{
		X:      r.X,
		Y:      r.Y + a.menu.RowOf(a.subParent),
		Width:  r.Width,
		Height: 1,
	})
}

func (as *anchors) choose(a *anchor, path ...string) {
	as.chosen = append(as.chosen, MenuChosenMsg{Trigger: a.name(), Path: path})
}

func (as *anchors) selectChanged(a *anchor) {
	as.chosen = append(as.chosen, SelectChangedMsg{Trigger: a.name(), Values: a.sel.Values()})
}
