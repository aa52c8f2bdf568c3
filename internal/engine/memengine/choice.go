package memengine

import (
	"github.com/example/kdiff/internal/core/tristate"
	"github.com/example/kdiff/internal/ports/secondary"
)

type choice struct {
	eng      *Engine
	name     string
	typ      secondary.SymbolType
	optional bool

	depends       []*symbol
	members       []*symbol
	defaultMember *symbol

	userSel *symbol

	// computed state
	vis tristate.Value
	sel *symbol
}

// Name returns the choice name, which may be empty.
func (c *choice) Name() string { return c.name }

// Visibility returns the choice's visibility level.
func (c *choice) Visibility() tristate.Value { return c.vis }

// Mode returns the mode the choice currently operates in.
func (c *choice) Mode() tristate.Value { return c.vis }

// IsOptional reports whether the choice may be left with no selection.
func (c *choice) IsOptional() bool { return c.optional }

// Members returns the member symbols in definition order.
func (c *choice) Members() []secondary.Symbol {
	out := make([]secondary.Symbol, len(c.members))
	for i, m := range c.members {
		out[i] = m
	}
	return out
}

// Selection returns the currently selected member in "y" mode.
func (c *choice) Selection() (secondary.Symbol, bool) {
	if c.sel == nil {
		return nil, false
	}
	return c.sel, true
}

// UserSelection returns the member explicitly selected by the user.
func (c *choice) UserSelection() (secondary.Symbol, bool) {
	if c.userSel == nil {
		return nil, false
	}
	return c.userSel, true
}

// DefaultSelection returns the member the default rules would select: the
// declared default if it is selectable, otherwise the first selectable
// member.
func (c *choice) DefaultSelection() (secondary.Symbol, bool) {
	if m := c.defaultSelection(); m != nil {
		return m, true
	}
	return nil, false
}

func (c *choice) defaultSelection() *symbol {
	if c.defaultMember != nil && c.memberVisible(c.defaultMember) {
		return c.defaultMember
	}
	for _, m := range c.members {
		if c.memberVisible(m) {
			return m
		}
	}
	return nil
}

// memberVisible evaluates a member's own dependencies against current
// values, independent of the choice's mode.
func (c *choice) memberVisible(m *symbol) bool {
	for _, dep := range m.depends {
		if dep.val == tristate.No {
			return false
		}
	}
	return true
}

// refresh re-evaluates the choice's visibility and exclusive selection.
func (c *choice) refresh() {
	vis := tristate.Yes
	for _, dep := range c.depends {
		vis = tristate.Min(vis, dep.val)
	}
	if c.typ == secondary.TypeBool && vis == tristate.Mod {
		vis = tristate.Yes
	}
	c.vis = vis

	if vis != tristate.Yes {
		c.sel = nil
		return
	}
	if c.userSel != nil && c.memberVisible(c.userSel) {
		c.sel = c.userSel
		return
	}
	if c.optional {
		c.sel = nil
		return
	}
	// Non-optional choices always carry a selection.
	c.sel = c.defaultSelection()
}

var _ secondary.Choice = (*choice)(nil)
