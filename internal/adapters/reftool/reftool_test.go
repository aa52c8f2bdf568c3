package reftool

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/kdiff/internal/config"
	"github.com/example/kdiff/internal/ports/secondary"
)

func testTool(t *testing.T, command ...string) (*Tool, *config.Config) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Tree = t.TempDir()
	cfg.RefCommand = command
	return NewTool(cfg), cfg
}

func TestInvokePassesEnvironment(t *testing.T) {
	// The child writes its view of the environment into the tree.
	tool, cfg := testTool(t, "sh", "-c", `printf "%s %s %s %s" "$ARCH" "$SRCARCH" "$KERNELVERSION" "${KCONFIG_ALLCONFIG-unset}" > env.out; true`)
	t.Setenv("KCONFIG_ALLCONFIG", "/tmp/leak")

	err := tool.Invoke(context.Background(), secondary.ArchTarget{Arch: "i386", SrcArch: "x86"}, "allnoconfig")
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Tree, "env.out"))
	if err != nil {
		t.Fatalf("child did not run in the tree: %v", err)
	}
	want := "i386 x86 2 unset"
	if string(data) != want {
		t.Errorf("child environment = %q, want %q", data, want)
	}
}

func TestInvokeAppendsOperation(t *testing.T) {
	tool, cfg := testTool(t, "sh", "-c", `printf "%s" "$0" > op.out; true`)

	if err := tool.Invoke(context.Background(), secondary.ArchTarget{Arch: "arm", SrcArch: "arm"}, secondary.OpAllYes); err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Tree, "op.out"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "allyesconfig" {
		t.Errorf("operation argument = %q, want allyesconfig", data)
	}
}

func TestInvokeSurfacesFailureOutput(t *testing.T) {
	tool, _ := testTool(t, "sh", "-c", `echo "conf: bad tree" >&2; exit 2`)

	err := tool.Invoke(context.Background(), secondary.ArchTarget{Arch: "arm", SrcArch: "arm"}, "allnoconfig")
	if err == nil {
		t.Fatal("Invoke() returned nil for failing process")
	}
	if !strings.Contains(err.Error(), "conf: bad tree") {
		t.Errorf("error %q does not carry process output", err)
	}
	if !strings.Contains(err.Error(), "exit status 2") {
		t.Errorf("error %q does not carry the exit status", err)
	}
}

func TestInvokeHonorsContext(t *testing.T) {
	tool, _ := testTool(t, "sleep", "60")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := tool.Invoke(ctx, secondary.ArchTarget{Arch: "arm", SrcArch: "arm"}, "allnoconfig")
	if err == nil {
		t.Fatal("Invoke() survived context timeout")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Invoke() blocked for %v after cancellation", elapsed)
	}
}
