package memengine

import (
	"fmt"

	"github.com/example/kdiff/internal/core/tristate"
	"github.com/example/kdiff/internal/ports/secondary"
)

type selectEdge struct {
	selector *symbol
	target   *symbol
	cond     []*symbol
}

type symbol struct {
	eng     *Engine
	name    string
	typ     secondary.SymbolType
	defined bool
	defLine int

	refLines []int

	depends    []*symbol
	selectedBy []*selectEdge
	defaultVal tristate.Value
	hasDefault bool
	choice     *choice

	userVal tristate.Value
	hasUser bool

	// computed state, current as of the last recompute
	val tristate.Value
	vis tristate.Value
	rev tristate.Value
}

// Name returns the symbol name without the CONFIG_ prefix.
func (s *symbol) Name() string { return s.name }

// Type returns the symbol's value domain.
func (s *symbol) Type() secondary.SymbolType { return s.typ }

// Value returns the current computed value.
func (s *symbol) Value() tristate.Value { return s.val }

// UserValue returns the user-assigned value, if any.
func (s *symbol) UserValue() (tristate.Value, bool) {
	return s.userVal, s.hasUser
}

// Visibility returns the symbol's current visibility level.
func (s *symbol) Visibility() tristate.Value { return s.vis }

// IsChoiceMember reports whether the symbol belongs to a choice group.
func (s *symbol) IsChoiceMember() bool { return s.choice != nil }

// IsDefined reports whether the symbol has a definition.
func (s *symbol) IsDefined() bool { return s.defined }

// DefLocations returns the locations where the symbol is defined.
func (s *symbol) DefLocations() []secondary.SourceLocation {
	if !s.defined {
		return nil
	}
	return []secondary.SourceLocation{{File: s.eng.file, Line: s.defLine}}
}

// RefLocations returns the locations where the symbol is referenced.
func (s *symbol) RefLocations() []secondary.SourceLocation {
	locs := make([]secondary.SourceLocation, 0, len(s.refLines))
	for _, line := range s.refLines {
		locs = append(locs, secondary.SourceLocation{File: s.eng.file, Line: line})
	}
	return locs
}

// LowerBound returns the lowest value currently assignable to the symbol.
func (s *symbol) LowerBound() (tristate.Value, bool) {
	lo, _, ok := s.bounds()
	return lo, ok
}

// UpperBound returns the highest value currently assignable to the symbol.
func (s *symbol) UpperBound() (tristate.Value, bool) {
	_, hi, ok := s.bounds()
	return hi, ok
}

// bounds returns the assignable range, or ok=false when the symbol's
// value cannot currently be changed.
func (s *symbol) bounds() (lo, hi tristate.Value, ok bool) {
	if !s.defined || s.typ == secondary.TypeUnknown {
		return 0, 0, false
	}

	if s.choice != nil {
		switch s.choice.vis {
		case tristate.Yes:
			if s.vis == tristate.No {
				return 0, 0, false
			}
			return tristate.No, tristate.Yes, true
		case tristate.Mod:
			if s.vis == tristate.No {
				return 0, 0, false
			}
			return tristate.No, tristate.Mod, true
		}
		return 0, 0, false
	}

	if s.vis == tristate.No {
		// Invisible symbols cannot be assigned; selects alone drive them.
		return 0, 0, false
	}
	return s.rev, tristate.Max(s.vis, s.rev), true
}

// SetValue assigns a user value. Out-of-range values are clamped during
// recomputation; the assignment itself never fails for a defined
// bool/tristate symbol.
func (s *symbol) SetValue(v tristate.Value) error {
	if !s.defined || s.typ == secondary.TypeUnknown {
		return fmt.Errorf("symbol %s is not assignable", s.name)
	}
	s.setUser(v)
	s.eng.recompute()
	return nil
}

// setUser records a user value without triggering recomputation.
func (s *symbol) setUser(v tristate.Value) {
	if s.typ == secondary.TypeBool && v == tristate.Mod {
		v = tristate.Yes
	}
	s.hasUser = true
	s.userVal = v
	if s.choice != nil && v == tristate.Yes {
		s.choice.userSel = s
	}
}

// refresh re-evaluates visibility, the select-driven lower bound, and the
// value from current dependency state. Reports whether anything changed.
func (s *symbol) refresh() bool {
	vis := tristate.Yes
	for _, dep := range s.depends {
		vis = tristate.Min(vis, dep.val)
	}
	if s.typ == secondary.TypeBool && vis == tristate.Mod {
		vis = tristate.Yes
	}
	if s.choice != nil {
		vis = tristate.Min(vis, s.choice.vis)
	}

	rev := tristate.No
	for _, edge := range s.selectedBy {
		v := edge.selector.val
		for _, cond := range edge.cond {
			v = tristate.Min(v, cond.val)
		}
		rev = tristate.Max(rev, v)
	}
	if s.typ == secondary.TypeBool && rev == tristate.Mod {
		rev = tristate.Yes
	}

	var val tristate.Value
	switch {
	case !s.defined || s.typ == secondary.TypeUnknown:
		val = tristate.No
	case s.choice != nil:
		val = s.choiceValue(vis)
	case vis == tristate.No:
		val = rev
	default:
		base := tristate.No
		if s.hasUser {
			base = tristate.Min(s.userVal, vis)
		} else if s.hasDefault {
			base = tristate.Min(s.defaultVal, vis)
		}
		val = tristate.Max(base, rev)
	}
	if s.typ == secondary.TypeBool && val == tristate.Mod {
		val = tristate.Yes
	}

	changed := val != s.val || vis != s.vis || rev != s.rev
	s.val, s.vis, s.rev = val, vis, rev
	return changed
}

// choiceValue computes a choice member's value under the choice's mode.
func (s *symbol) choiceValue(vis tristate.Value) tristate.Value {
	switch s.choice.vis {
	case tristate.Yes:
		if s.choice.sel == s && vis > tristate.No {
			return tristate.Yes
		}
		return tristate.No
	case tristate.Mod:
		if s.hasUser && vis > tristate.No {
			return tristate.Min(s.userVal, tristate.Mod)
		}
		return tristate.No
	}
	return tristate.No
}

var _ secondary.Symbol = (*symbol)(nil)
