package memengine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/kdiff/internal/core/tristate"
	"github.com/example/kdiff/internal/ports/secondary"
)

// testTab builds a small tree exercising dependencies, selects, defaults,
// and a choice group:
//
//	BASE     tristate, default y
//	NET      tristate, depends on BASE, default m
//	WIFI     tristate, depends on NET
//	CRYPTO   tristate, selected by WIFI
//	DEBUG    bool, default n
//	CPU      choice (bool) of CPU_A (default) and CPU_B
func testTab() *Symtab {
	return &Symtab{
		Arch:    "x86",
		SrcArch: "x86",
		File:    "arch/x86/symtab.json",
		Symbols: []SymtabSymbol{
			{Name: "BASE", Type: "tristate", Default: "y", Line: 1},
			{Name: "NET", Type: "tristate", Depends: []string{"BASE"}, Default: "m", Line: 2},
			{Name: "WIFI", Type: "tristate", Depends: []string{"NET"}, Selects: []SymtabSelect{{Target: "CRYPTO"}}, Line: 3},
			{Name: "CRYPTO", Type: "tristate", Line: 4},
			{Name: "DEBUG", Type: "bool", Default: "n", Line: 5},
			{Name: "CPU_A", Type: "bool", Line: 7},
			{Name: "CPU_B", Type: "bool", Line: 8},
		},
		Choices: []SymtabChoice{
			{Name: "CPU", Type: "bool", Default: "CPU_A", Members: []string{"CPU_A", "CPU_B"}, Line: 6},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(testTab(), secondary.ArchTarget{Arch: "x86", SrcArch: "x86"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return eng
}

func value(t *testing.T, eng *Engine, name string) tristate.Value {
	t.Helper()
	sym, ok := eng.LookupSymbol(name)
	if !ok {
		t.Fatalf("symbol %s not found", name)
	}
	return sym.Value()
}

func TestInitialState(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name string
		want tristate.Value
	}{
		{name: "BASE", want: tristate.Yes},
		{name: "NET", want: tristate.Mod},
		{name: "WIFI", want: tristate.No},   // no default
		{name: "CRYPTO", want: tristate.No}, // selector is n
		{name: "DEBUG", want: tristate.No},
		{name: "CPU_A", want: tristate.Yes}, // default selection
		{name: "CPU_B", want: tristate.No},
	}

	for _, tt := range tests {
		if got := value(t, eng, tt.name); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPropagationIsSynchronous(t *testing.T) {
	eng := newTestEngine(t)

	base, _ := eng.LookupSymbol("BASE")
	if err := base.SetValue(tristate.No); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}

	// NET depends on BASE: visibility and value must already be n.
	net, _ := eng.LookupSymbol("NET")
	if got := net.Value(); got != tristate.No {
		t.Errorf("NET after BASE=n: %v, want n", got)
	}
	if got := net.Visibility(); got != tristate.No {
		t.Errorf("NET visibility after BASE=n: %v, want n", got)
	}
	if _, ok := net.LowerBound(); ok {
		t.Error("NET should not be modifiable with BASE=n")
	}
}

func TestSelectForcesLowerBound(t *testing.T) {
	eng := newTestEngine(t)

	wifi, _ := eng.LookupSymbol("WIFI")
	if err := wifi.SetValue(tristate.Mod); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}

	crypto, _ := eng.LookupSymbol("CRYPTO")
	if got := crypto.Value(); got != tristate.Mod {
		t.Errorf("CRYPTO after WIFI=m: %v, want m", got)
	}
	lo, ok := crypto.LowerBound()
	if !ok || lo != tristate.Mod {
		t.Errorf("CRYPTO lower bound = %v, %v; want m, true", lo, ok)
	}
}

func TestBoolClampsMod(t *testing.T) {
	eng := newTestEngine(t)

	debug, _ := eng.LookupSymbol("DEBUG")
	if err := debug.SetValue(tristate.Mod); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	if got := debug.Value(); got != tristate.Yes {
		t.Errorf("bool symbol set to m: %v, want y", got)
	}
}

func TestChoiceExclusivity(t *testing.T) {
	eng := newTestEngine(t)

	cpuB, _ := eng.LookupSymbol("CPU_B")
	if err := cpuB.SetValue(tristate.Yes); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}

	if got := value(t, eng, "CPU_B"); got != tristate.Yes {
		t.Errorf("CPU_B = %v, want y", got)
	}
	if got := value(t, eng, "CPU_A"); got != tristate.No {
		t.Errorf("CPU_A after selecting CPU_B: %v, want n", got)
	}

	ch := eng.Choices()[0]
	sel, ok := ch.Selection()
	if !ok || sel.Name() != "CPU_B" {
		t.Errorf("Selection() = %v, %v; want CPU_B", sel, ok)
	}
	user, ok := ch.UserSelection()
	if !ok || user.Name() != "CPU_B" {
		t.Errorf("UserSelection() = %v, %v; want CPU_B", user, ok)
	}
}

func TestReset(t *testing.T) {
	eng := newTestEngine(t)

	base, _ := eng.LookupSymbol("BASE")
	base.SetValue(tristate.No)
	cpuB, _ := eng.LookupSymbol("CPU_B")
	cpuB.SetValue(tristate.Yes)

	eng.Reset()

	if got := value(t, eng, "BASE"); got != tristate.Yes {
		t.Errorf("BASE after reset: %v, want y", got)
	}
	if got := value(t, eng, "CPU_A"); got != tristate.Yes {
		t.Errorf("CPU_A after reset: %v, want y", got)
	}
	if _, ok := eng.Choices()[0].UserSelection(); ok {
		t.Error("UserSelection survived reset")
	}
}

func TestWriteAndLoadConfig(t *testing.T) {
	eng := newTestEngine(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".config")

	wifi, _ := eng.LookupSymbol("WIFI")
	wifi.SetValue(tristate.Mod)

	if err := eng.WriteConfig(path); err != nil {
		t.Fatalf("WriteConfig error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	want := "CONFIG_BASE=y\nCONFIG_NET=m\nCONFIG_WIFI=m\nCONFIG_CRYPTO=m\n# CONFIG_DEBUG is not set\nCONFIG_CPU_A=y\n# CONFIG_CPU_B is not set\n"
	if string(data) != want {
		t.Errorf("WriteConfig produced:\n%s\nwant:\n%s", data, want)
	}

	// A fresh engine replaying the snapshot reproduces the state.
	replay := newTestEngine(t)
	if err := replay.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if got := value(t, replay, "WIFI"); got != tristate.Mod {
		t.Errorf("WIFI after replay: %v, want m", got)
	}
	if got := value(t, replay, "CRYPTO"); got != tristate.Mod {
		t.Errorf("CRYPTO after replay: %v, want m", got)
	}
}

func TestLoadConfigReplacesPriorConfig(t *testing.T) {
	eng := newTestEngine(t)
	dir := t.TempDir()

	first := filepath.Join(dir, "first_defconfig")
	if err := os.WriteFile(first, []byte("CONFIG_WIFI=m\nCONFIG_DEBUG=y\n"), 0644); err != nil {
		t.Fatalf("failed to write defconfig: %v", err)
	}
	second := filepath.Join(dir, "second_defconfig")
	if err := os.WriteFile(second, []byte("CONFIG_CPU_B=y\n"), 0644); err != nil {
		t.Fatalf("failed to write defconfig: %v", err)
	}

	if err := eng.LoadConfig(first); err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if got := value(t, eng, "WIFI"); got != tristate.Mod {
		t.Fatalf("WIFI after first load: %v, want m", got)
	}

	// The second load must not carry anything over from the first: a
	// symbol the second snapshot never mentions reverts to its
	// snapshot-free value.
	if err := eng.LoadConfig(second); err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if got := value(t, eng, "WIFI"); got != tristate.No {
		t.Errorf("WIFI after second load: %v, want n", got)
	}
	if got := value(t, eng, "DEBUG"); got != tristate.No {
		t.Errorf("DEBUG after second load: %v, want n", got)
	}
	if got := value(t, eng, "CPU_B"); got != tristate.Yes {
		t.Errorf("CPU_B after second load: %v, want y", got)
	}

	// Loading the same snapshot into a fresh engine agrees.
	fresh := newTestEngine(t)
	if err := fresh.LoadConfig(second); err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	for _, name := range []string{"WIFI", "DEBUG", "CPU_A", "CPU_B"} {
		if got, want := value(t, eng, name), value(t, fresh, name); got != want {
			t.Errorf("%s = %v after sequential loads, fresh engine has %v", name, got, want)
		}
	}
}

func TestLoadConfigIgnoresForeignSymbols(t *testing.T) {
	eng := newTestEngine(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "defconfig")

	raw := "CONFIG_OTHER_ARCH_ONLY=y\nCONFIG_WIFI=m\nCONFIG_STRINGOPT=\"abc\"\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("failed to write defconfig: %v", err)
	}

	if err := eng.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if got := value(t, eng, "WIFI"); got != tristate.Mod {
		t.Errorf("WIFI = %v, want m", got)
	}
}

func TestEval(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		expr    string
		want    tristate.Value
		wantErr bool
	}{
		{expr: "y", want: tristate.Yes},
		{expr: "y && ARCH", want: tristate.No}, // unknown symbol is n
		{expr: "y && NET", want: tristate.Mod},
		{expr: "y || n", want: tristate.Yes},
		{expr: "!n", want: tristate.Yes},
		{expr: "!m", want: tristate.Mod},
		{expr: "NET = m", want: tristate.Yes},
		{expr: "NET != y", want: tristate.Yes},
		{expr: "(y && n) || m", want: tristate.Mod},
		{expr: "y && && y", wantErr: true},
		{expr: "y &&", wantErr: true},
		{expr: "&& y", wantErr: true},
		{expr: "(y", wantErr: true},
		{expr: "y | n", wantErr: true},
		{expr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := eng.Eval(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, secondary.ErrSyntax) {
					t.Fatalf("Eval(%q) error = %v, want ErrSyntax", tt.expr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Eval(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestDefinedness(t *testing.T) {
	eng := newTestEngine(t)

	for _, sym := range eng.Symbols() {
		if sym.IsDefined() {
			if len(sym.DefLocations()) == 0 {
				t.Errorf("defined symbol %s lacks def locations", sym.Name())
			}
		} else {
			if len(sym.DefLocations()) != 0 {
				t.Errorf("undefined symbol %s has def locations", sym.Name())
			}
			if len(sym.RefLocations()) == 0 {
				t.Errorf("undefined symbol %s is also unreferenced", sym.Name())
			}
		}
	}
}

func TestProvider(t *testing.T) {
	tree := t.TempDir()
	archDir := filepath.Join(tree, "arch", "x86")
	if err := os.MkdirAll(archDir, 0755); err != nil {
		t.Fatalf("failed to create arch dir: %v", err)
	}
	// Minimal valid symtab.
	raw := `{"arch":"x86","srcarch":"x86","file":"arch/x86/symtab.json","symbols":[{"name":"FOO","type":"bool","default":"y"}]}`
	if err := os.WriteFile(filepath.Join(archDir, SymtabName), []byte(raw), 0644); err != nil {
		t.Fatalf("failed to write symtab: %v", err)
	}

	p := NewProvider(tree)
	eng, err := p.NewEngine(secondary.ArchTarget{Arch: "i386", SrcArch: "x86"})
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	if eng.Arch() != "i386" || eng.SrcArch() != "x86" {
		t.Errorf("engine target = %s/%s, want i386/x86", eng.Arch(), eng.SrcArch())
	}

	if _, err := p.NewEngine(secondary.ArchTarget{Arch: "arm", SrcArch: "arm"}); err == nil {
		t.Error("NewEngine for missing symtab returned nil error")
	}
}
