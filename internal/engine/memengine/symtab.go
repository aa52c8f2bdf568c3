package memengine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/kdiff/internal/ports/secondary"
)

// Symtab is the pre-parsed symbol tree loaded by the engine. Producing it
// from the configuration language is the frontend's job; the engine only
// resolves.
type Symtab struct {
	Arch    string         `json:"arch"`
	SrcArch string         `json:"srcarch"`
	File    string         `json:"file"`
	Symbols []SymtabSymbol `json:"symbols"`
	Choices []SymtabChoice `json:"choices"`
}

// SymtabSymbol is one symbol definition.
type SymtabSymbol struct {
	Name string `json:"name"`

	// Type is "bool" or "tristate".
	Type string `json:"type"`

	// Depends lists symbols whose values gate this symbol's visibility
	// (conjunction).
	Depends []string `json:"depends,omitempty"`

	// Default is the default value spelling ("n", "m", "y"), empty for no
	// default.
	Default string `json:"default,omitempty"`

	// Selects lists symbols forced to at least this symbol's value.
	Selects []SymtabSelect `json:"selects,omitempty"`

	Line int `json:"line,omitempty"`
}

// SymtabSelect is one select edge.
type SymtabSelect struct {
	Target string `json:"target"`

	// If lists additional condition symbols (conjunction).
	If []string `json:"if,omitempty"`
}

// SymtabChoice is one mutually-exclusive group definition.
type SymtabChoice struct {
	Name     string   `json:"name,omitempty"`
	Type     string   `json:"type"`
	Optional bool     `json:"optional,omitempty"`
	Depends  []string `json:"depends,omitempty"`

	// Default names the member selected by default; empty means the first
	// visible member.
	Default string `json:"default,omitempty"`

	Members []string `json:"members"`
	Line    int      `json:"line,omitempty"`
}

// LoadSymtab reads a symbol table from a JSON file.
func LoadSymtab(path string) (*Symtab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read symtab: %w", err)
	}

	var tab Symtab
	if err := json.Unmarshal(data, &tab); err != nil {
		return nil, fmt.Errorf("failed to parse symtab: %w", err)
	}
	return &tab, nil
}

func parseType(s string) secondary.SymbolType {
	switch s {
	case "bool":
		return secondary.TypeBool
	case "tristate":
		return secondary.TypeTristate
	}
	return secondary.TypeUnknown
}
