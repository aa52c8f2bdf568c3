// Package resolve implements the minimal ("all-no") and maximal
// ("all-yes") fixed-point resolution algorithms over an engine's symbol
// collection.
//
// Both algorithms are deliberately naive full-pass loops. Symbol bounds
// are recomputed dynamically by the engine as other symbols change, so no
// static ordering of symbols is safe; repeated passes are the only
// generally correct strategy. Termination is guaranteed because every
// mutation moves a value strictly toward the extremum on a finite lattice.
package resolve

import (
	"github.com/example/kdiff/internal/core/tristate"
	"github.com/example/kdiff/internal/ports/secondary"
)

// AllNo drives eng to the minimal satisfying configuration and returns the
// number of full passes performed.
func AllNo(eng secondary.Engine) int {
	passes := 0

	for {
		passes++
		done := true

		// Choices take care of themselves here: member bounds already
		// encode the exclusivity constraints, so only non-choice symbols
		// need lowering.
		for _, sym := range eng.Symbols() {
			if sym.IsChoiceMember() {
				continue
			}
			lower, ok := sym.LowerBound()
			if ok && lower < sym.Value() {
				sym.SetValue(lower)
				// Lowering one symbol may loosen bounds elsewhere.
				done = false
			}
		}

		if done {
			return passes
		}
	}
}

// AllYes drives eng to the maximal satisfying configuration and returns
// the number of full passes performed.
func AllYes(eng secondary.Engine) int {
	passes := 0

	for {
		passes++
		done := true

		for _, sym := range eng.Symbols() {
			if sym.IsChoiceMember() {
				continue
			}
			upper, ok := sym.UpperBound()
			if ok && sym.Value() < upper {
				sym.SetValue(upper)
				done = false
			}
		}

		for _, choice := range eng.Choices() {
			switch choice.Visibility() {
			case tristate.Yes:
				// Exclusive mode is reachable: prefer the engine-declared
				// default over the current selection.
				def, ok := choice.DefaultSelection()
				if !ok {
					continue
				}
				user, hasUser := choice.UserSelection()
				if !hasUser || user.Name() != def.Name() {
					def.SetValue(tristate.Yes)
					done = false
				}
			case tristate.Mod:
				// Exclusive mode is unreachable; every member that is not
				// structurally forbidden can independently reach "m".
				for _, member := range choice.Members() {
					if member.Value() == tristate.Mod {
						continue
					}
					if upper, ok := member.UpperBound(); ok && upper != tristate.No {
						member.SetValue(tristate.Mod)
						if member.Value() == tristate.Mod {
							done = false
						}
					}
				}
			}
		}

		if done {
			return passes
		}
	}
}
