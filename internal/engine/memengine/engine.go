// Package memengine implements the resolution-engine contract over a
// pre-parsed symbol table held in memory. It is the engine the harness
// tests itself against and the default engine wired into the binary.
//
// The model is deliberately small: bool/tristate symbols, depends-on
// conjunctions gating visibility, select edges forcing lower bounds,
// defaults, and mutually exclusive choice groups. Every mutation
// recomputes all dependent state synchronously before returning.
package memengine

import (
	"fmt"
	"os"
	"strings"

	"github.com/example/kdiff/internal/core/snapshot"
	"github.com/example/kdiff/internal/core/tristate"
	"github.com/example/kdiff/internal/ports/secondary"
)

// Engine resolves one architecture's symbol tree.
type Engine struct {
	arch    string
	srcarch string
	file    string

	syms     []*symbol
	symIndex map[string]*symbol
	choices  []*choice
}

// New builds an engine from a symbol table. The target's ARCH may differ
// from the table's (additional ARCH settings share one arch directory).
func New(tab *Symtab, target secondary.ArchTarget) (*Engine, error) {
	eng := &Engine{
		arch:     target.Arch,
		srcarch:  target.SrcArch,
		file:     tab.File,
		symIndex: make(map[string]*symbol),
	}
	if eng.arch == "" {
		eng.arch = tab.Arch
	}
	if eng.srcarch == "" {
		eng.srcarch = tab.SrcArch
	}

	for _, def := range tab.Symbols {
		if _, dup := eng.symIndex[def.Name]; dup {
			return nil, fmt.Errorf("duplicate symbol %s", def.Name)
		}
		sym := &symbol{
			eng:     eng,
			name:    def.Name,
			typ:     parseType(def.Type),
			defined: true,
			defLine: def.Line,
		}
		if def.Default != "" {
			v, err := tristate.Parse(def.Default)
			if err != nil {
				return nil, fmt.Errorf("symbol %s: %w", def.Name, err)
			}
			sym.defaultVal = v
			sym.hasDefault = true
		}
		eng.syms = append(eng.syms, sym)
		eng.symIndex[def.Name] = sym
	}

	// Second pass: resolve references. Referenced-but-undefined symbols
	// are materialized so accessors never dangle.
	for _, def := range tab.Symbols {
		sym := eng.symIndex[def.Name]
		for _, dep := range def.Depends {
			sym.depends = append(sym.depends, eng.reference(dep, def.Line))
		}
		for _, sel := range def.Selects {
			edge := &selectEdge{
				selector: sym,
				target:   eng.reference(sel.Target, def.Line),
			}
			for _, cond := range sel.If {
				edge.cond = append(edge.cond, eng.reference(cond, def.Line))
			}
			edge.target.selectedBy = append(edge.target.selectedBy, edge)
		}
	}

	for _, def := range tab.Choices {
		ch := &choice{
			eng:      eng,
			name:     def.Name,
			typ:      parseType(def.Type),
			optional: def.Optional,
		}
		for _, dep := range def.Depends {
			ch.depends = append(ch.depends, eng.reference(dep, def.Line))
		}
		for _, name := range def.Members {
			member, ok := eng.symIndex[name]
			if !ok {
				return nil, fmt.Errorf("choice %s: undefined member %s", def.Name, name)
			}
			if member.choice != nil {
				return nil, fmt.Errorf("symbol %s belongs to two choices", name)
			}
			member.choice = ch
			ch.members = append(ch.members, member)
		}
		if def.Default != "" {
			member, ok := eng.symIndex[def.Default]
			if !ok || member.choice != ch {
				return nil, fmt.Errorf("choice %s: default %s is not a member", def.Name, def.Default)
			}
			ch.defaultMember = member
		}
		eng.choices = append(eng.choices, ch)
	}

	eng.recompute()
	return eng, nil
}

// reference returns the symbol with the given name, materializing an
// undefined placeholder on first sight, and records the referencing line.
func (e *Engine) reference(name string, line int) *symbol {
	sym, ok := e.symIndex[name]
	if !ok {
		sym = &symbol{eng: e, name: name, typ: secondary.TypeUnknown}
		e.syms = append(e.syms, sym)
		e.symIndex[name] = sym
	}
	sym.refLines = append(sym.refLines, line)
	return sym
}

// Arch returns the architecture this engine was loaded for.
func (e *Engine) Arch() string { return e.arch }

// SrcArch returns the arch source directory the engine was loaded from.
func (e *Engine) SrcArch() string { return e.srcarch }

// Symbols returns all symbols in definition order, undefined ones last.
func (e *Engine) Symbols() []secondary.Symbol {
	out := make([]secondary.Symbol, len(e.syms))
	for i, s := range e.syms {
		out[i] = s
	}
	return out
}

// Choices returns all choice groups in definition order.
func (e *Engine) Choices() []secondary.Choice {
	out := make([]secondary.Choice, len(e.choices))
	for i, c := range e.choices {
		out[i] = c
	}
	return out
}

// LookupSymbol returns the symbol with the given name.
func (e *Engine) LookupSymbol(name string) (secondary.Symbol, bool) {
	sym, ok := e.symIndex[name]
	if !ok {
		return nil, false
	}
	return sym, true
}

// Reset discards all user values and recomputes the initial state.
func (e *Engine) Reset() {
	for _, sym := range e.syms {
		sym.hasUser = false
	}
	for _, ch := range e.choices {
		ch.userSel = nil
	}
	e.recompute()
}

// LoadConfig replaces the current configuration with a persisted
// snapshot: every prior user value is discarded, then the snapshot's
// assignments are applied. Assignments to unknown symbols are ignored,
// matching the tolerance the replay scenario needs for
// cross-architecture snapshots.
func (e *Engine) LoadConfig(path string) error {
	snap, err := snapshot.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, sym := range e.syms {
		sym.hasUser = false
	}
	for _, ch := range e.choices {
		ch.userSel = nil
	}

	for _, line := range snap.Lines {
		if snapshot.IsUnsetMarker(line) {
			name := strings.TrimSuffix(strings.TrimPrefix(line, "# CONFIG_"), " is not set")
			if sym, ok := e.symIndex[name]; ok && sym.defined {
				sym.hasUser = true
				sym.userVal = tristate.No
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, found := strings.Cut(line, "=")
		if !found || !strings.HasPrefix(name, "CONFIG_") {
			continue
		}
		v, err := tristate.Parse(value)
		if err != nil {
			// Non-tristate assignment (string/int symbols): out of model.
			continue
		}
		if sym, ok := e.symIndex[strings.TrimPrefix(name, "CONFIG_")]; ok && sym.defined {
			sym.setUser(v)
		}
	}

	e.recompute()
	return nil
}

// WriteConfig persists the current configuration to path, one line per
// defined symbol in definition order. No header is written; the reference
// tool's header is the comparator's problem.
func (e *Engine) WriteConfig(path string) error {
	var b strings.Builder
	for _, sym := range e.syms {
		if !sym.defined || sym.typ == secondary.TypeUnknown {
			continue
		}
		if sym.val == tristate.No {
			fmt.Fprintf(&b, "# CONFIG_%s is not set\n", sym.name)
		} else {
			fmt.Fprintf(&b, "CONFIG_%s=%s\n", sym.name, sym.val)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// recompute re-evaluates visibility, bounds, and values for every symbol
// and choice until the state is stable. The pass count is bounded by the
// symbol count; dependency chains cannot be longer than that.
func (e *Engine) recompute() {
	for pass := 0; pass <= len(e.syms)+1; pass++ {
		if !e.recomputePass() {
			return
		}
	}
}

// recomputePass runs one full evaluation pass and reports whether any
// value changed.
func (e *Engine) recomputePass() bool {
	changed := false

	for _, ch := range e.choices {
		ch.refresh()
	}
	for _, sym := range e.syms {
		if sym.refresh() {
			changed = true
		}
	}
	return changed
}

var _ secondary.Engine = (*Engine)(nil)
