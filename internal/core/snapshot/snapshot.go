// Package snapshot loads persisted configuration snapshots and decides
// semantic equivalence between them.
package snapshot

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// unsetRe matches the "symbol explicitly unset" marker. Lines of this
// exact shape are semantically meaningful and are never part of the
// skippable header.
var unsetRe = regexp.MustCompile(`^# CONFIG_(\w+) is not set`)

// Snapshot is an ordered sequence of lines representing a persisted
// configuration, possibly preceded by a header comment block.
type Snapshot struct {
	Lines []string
}

// Load reads a snapshot from path. The trailing newline does not produce
// an empty final line.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse splits raw snapshot text into lines.
func Parse(raw string) Snapshot {
	if raw == "" {
		return Snapshot{}
	}
	raw = strings.TrimSuffix(raw, "\n")
	return Snapshot{Lines: strings.Split(raw, "\n")}
}

// Body returns the snapshot's lines with any leading header stripped. The
// header is the run of leading comment lines up to, but not including, the
// first non-comment line or the first "# CONFIG_<name> is not set" marker.
func (s Snapshot) Body() []string {
	i := 0
	for _, line := range s.Lines {
		if !strings.HasPrefix(line, "#") || unsetRe.MatchString(line) {
			break
		}
		i++
	}
	return s.Lines[i:]
}

// Equal reports whether two snapshots are semantically equivalent: their
// bodies must be line-for-line identical, order included. Equal is
// symmetric.
func Equal(a, b Snapshot) bool {
	ab, bb := a.Body(), b.Body()
	if len(ab) != len(bb) {
		return false
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}

// IsUnsetMarker reports whether line is an explicit "symbol unset" marker.
func IsUnsetMarker(line string) bool {
	return unsetRe.MatchString(line)
}
