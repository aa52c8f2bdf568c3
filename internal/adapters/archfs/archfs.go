// Package archfs enumerates architectures and defconfig snapshots from a
// source tree's arch/ directory.
package archfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/kdiff/internal/ports/secondary"
)

// extraArchSettings maps arch directories to the additional ARCH values
// they define with ARCH != SRCARCH.
var extraArchSettings = map[string][]string{
	"x86":   {"i386", "x86_64"},
	"sparc": {"sparc32", "sparc64"},
	"sh":    {"sh64"},
	"tile":  {"tilepro", "tilegx"},
}

// Source enumerates from a tree on disk.
type Source struct {
	tree string
	skip map[string]bool

	// marker is the file whose presence qualifies an arch directory.
	marker string
}

// NewSource returns a source rooted at tree. Directories named in skip
// are excluded (known-broken trees). marker is the per-arch definition
// file to look for, e.g. "Kconfig".
func NewSource(tree, marker string, skip []string) *Source {
	s := &Source{tree: tree, marker: marker, skip: make(map[string]bool, len(skip))}
	for _, name := range skip {
		s.skip[name] = true
	}
	return s
}

// ListArches returns every arch directory containing the marker file,
// plus the additional ARCH settings those directories define.
func (s *Source) ListArches() ([]secondary.ArchTarget, error) {
	entries, err := os.ReadDir(filepath.Join(s.tree, "arch"))
	if err != nil {
		return nil, fmt.Errorf("failed to read arch directory: %w", err)
	}

	var targets []secondary.ArchTarget
	for _, entry := range entries {
		if !entry.IsDir() || s.skip[entry.Name()] {
			continue
		}
		archdir := entry.Name()
		if _, err := os.Stat(filepath.Join(s.tree, "arch", archdir, s.marker)); err != nil {
			continue
		}

		targets = append(targets, secondary.ArchTarget{Arch: archdir, SrcArch: archdir})
		for _, extra := range extraArchSettings[archdir] {
			targets = append(targets, secondary.ArchTarget{Arch: extra, SrcArch: archdir})
		}
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].Arch < targets[j].Arch })
	return targets, nil
}

// ListDefconfigs returns every defconfig snapshot under every arch
// directory: an optional arch/<a>/defconfig plus all files under
// arch/<a>/configs/, recursively. Paths are relative to the tree root.
func (s *Source) ListDefconfigs() ([]secondary.Defconfig, error) {
	entries, err := os.ReadDir(filepath.Join(s.tree, "arch"))
	if err != nil {
		return nil, fmt.Errorf("failed to read arch directory: %w", err)
	}

	var defconfigs []secondary.Defconfig
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		arch := entry.Name()
		archDir := filepath.Join(s.tree, "arch", arch)

		// Some arches keep a single defconfig in the arch root.
		root := filepath.Join(archDir, "defconfig")
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			defconfigs = append(defconfigs, secondary.Defconfig{
				Arch: arch,
				Path: filepath.Join("arch", arch, "defconfig"),
			})
		}

		configsDir := filepath.Join(archDir, "configs")
		info, err := os.Stat(configsDir)
		if err != nil || !info.IsDir() {
			continue
		}
		err = filepath.WalkDir(configsDir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(s.tree, path)
			if err != nil {
				return err
			}
			defconfigs = append(defconfigs, secondary.Defconfig{Arch: arch, Path: rel})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", configsDir, err)
		}
	}

	sort.Slice(defconfigs, func(i, j int) bool { return defconfigs[i].Path < defconfigs[j].Path })
	return defconfigs, nil
}

var _ secondary.ArchSource = (*Source)(nil)
