package secondary

// ArchTarget identifies one architecture to test. Arch and SrcArch differ
// for arch directories that define additional ARCH settings (i386 and
// x86_64 both live under arch/x86).
type ArchTarget struct {
	Arch    string
	SrcArch string
}

// Defconfig identifies one pre-authored configuration snapshot.
type Defconfig struct {
	// Arch is the architecture directory the defconfig was found under.
	Arch string

	// Path is the snapshot path relative to the tree root.
	Path string
}

// ArchSource enumerates architectures and defconfig snapshots from the
// source of truth (the tree's per-architecture definition directories).
type ArchSource interface {
	// ListArches returns every testable architecture target, including
	// additional ARCH settings, in stable order.
	ListArches() ([]ArchTarget, error)

	// ListDefconfigs returns every known defconfig snapshot across all
	// architectures, in stable order.
	ListDefconfigs() ([]Defconfig, error)
}
