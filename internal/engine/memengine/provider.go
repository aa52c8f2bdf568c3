package memengine

import (
	"fmt"
	"path/filepath"

	"github.com/example/kdiff/internal/ports/secondary"
)

// SymtabName is the per-architecture symbol table filename the provider
// expects under arch/<srcarch>/.
const SymtabName = "symtab.json"

// Provider loads engines from pre-parsed symbol tables in a source tree.
type Provider struct {
	tree string
}

// NewProvider returns a provider rooted at the given tree.
func NewProvider(tree string) *Provider {
	return &Provider{tree: tree}
}

// NewEngine loads arch/<srcarch>/symtab.json and builds an engine for the
// target.
func (p *Provider) NewEngine(target secondary.ArchTarget) (secondary.Engine, error) {
	path := filepath.Join(p.tree, "arch", target.SrcArch, SymtabName)
	tab, err := LoadSymtab(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine for %s: %w", target.Arch, err)
	}
	return New(tab, target)
}

var _ secondary.EngineProvider = (*Provider)(nil)
