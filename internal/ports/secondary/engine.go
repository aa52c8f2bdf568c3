// Package secondary defines the secondary ports (driven adapters) for the
// harness. These are the interfaces through which the harness drives the
// resolution engine, the reference tool, and persistence.
package secondary

import (
	"errors"

	"github.com/example/kdiff/internal/core/tristate"
)

// ErrSyntax is the distinct condition reported by Engine.Eval when it is
// handed a malformed logical expression. The introspection scenario expects
// this error explicitly, so adapters must wrap it (errors.Is must match).
var ErrSyntax = errors.New("expression syntax error")

// SymbolType classifies a symbol's value domain.
type SymbolType string

const (
	TypeBool     SymbolType = "bool"
	TypeTristate SymbolType = "tristate"
	TypeUnknown  SymbolType = "unknown"
)

// SourceLocation identifies where a symbol was defined or referenced.
type SourceLocation struct {
	File string
	Line int
}

// Symbol is a read-only-plus-assignment view over one resolvable entity.
// Bounds and visibility are recomputed by the engine; the harness never
// derives them itself.
type Symbol interface {
	// Name returns the symbol name without the CONFIG_ prefix.
	Name() string

	// Type returns the symbol's value domain.
	Type() SymbolType

	// Value returns the current computed value.
	Value() tristate.Value

	// UserValue returns the user-assigned value, if any.
	UserValue() (tristate.Value, bool)

	// LowerBound returns the lowest value currently assignable to the
	// symbol. The second return is false when the symbol's value cannot
	// currently be changed (or the symbol is not bool/tristate).
	LowerBound() (tristate.Value, bool)

	// UpperBound returns the highest value currently assignable to the
	// symbol, with the same absence semantics as LowerBound.
	UpperBound() (tristate.Value, bool)

	// Visibility returns the symbol's current visibility level.
	Visibility() tristate.Value

	// IsChoiceMember reports whether the symbol belongs to a choice group.
	IsChoiceMember() bool

	// IsDefined reports whether the symbol has a definition (as opposed to
	// being merely referenced).
	IsDefined() bool

	// DefLocations returns the locations where the symbol is defined.
	DefLocations() []SourceLocation

	// RefLocations returns the locations where the symbol is referenced.
	RefLocations() []SourceLocation

	// SetValue assigns a user value. Values outside [LowerBound,
	// UpperBound] are clamped by the engine. The engine recomputes all
	// dependent bounds and visibility before returning.
	SetValue(v tristate.Value) error
}

// Choice is a view over a group of mutually exclusive symbols. A choice
// owns no symbols; membership is maintained by the engine.
type Choice interface {
	// Name returns the choice name, which may be empty.
	Name() string

	// Visibility returns the choice's visibility level.
	Visibility() tristate.Value

	// Mode returns the mode the choice is currently operating in: Yes for
	// exclusive selection, Mod for independent per-member "m" values, No
	// when inactive.
	Mode() tristate.Value

	// Selection returns the currently selected member in "y" mode.
	Selection() (Symbol, bool)

	// DefaultSelection returns the member the engine's default rules would
	// select, if one applies.
	DefaultSelection() (Symbol, bool)

	// UserSelection returns the member explicitly selected by the user.
	UserSelection() (Symbol, bool)

	// Members returns the member symbols in definition order.
	Members() []Symbol

	// IsOptional reports whether the choice may be left with no selection.
	IsOptional() bool
}

// Engine is the resolution-engine collaborator contract for one
// architecture. Every mutation propagates synchronously: by the time a
// mutating call returns, all dependent bounds and visibility are current.
type Engine interface {
	// Arch returns the architecture this engine instance was loaded for.
	Arch() string

	// SrcArch returns the arch source directory the engine was loaded from.
	SrcArch() string

	// Symbols returns all symbols in definition order.
	Symbols() []Symbol

	// Choices returns all choice groups in definition order.
	Choices() []Choice

	// LookupSymbol returns the symbol with the given name.
	LookupSymbol(name string) (Symbol, bool)

	// Eval evaluates a logical expression such as "y && ARCH" against the
	// current configuration. A malformed expression yields an error
	// matching ErrSyntax.
	Eval(expr string) (tristate.Value, error)

	// Reset discards all user values and recomputes the initial state.
	Reset()

	// LoadConfig replaces the current configuration with a persisted
	// snapshot; prior user values are discarded, not merged.
	LoadConfig(path string) error

	// WriteConfig persists the current configuration to path.
	WriteConfig(path string) error
}

// EngineProvider loads an Engine for one architecture target.
type EngineProvider interface {
	// NewEngine loads the symbol tree for the given target. The returned
	// engine is owned by the caller for the duration of one architecture's
	// test pass.
	NewEngine(target ArchTarget) (Engine, error)
}
