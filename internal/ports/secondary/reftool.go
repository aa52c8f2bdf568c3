package secondary

import "context"

// ReferenceOp names one operation of the trusted reference tool.
type ReferenceOp string

const (
	OpAllNo   ReferenceOp = "allnoconfig"
	OpAllYes  ReferenceOp = "allyesconfig"
	OpAllDef  ReferenceOp = "alldefconfig"
	OpDefault ReferenceOp = "defconfig"
)

// ReferenceTool invokes the trusted reference implementation as a separate
// process. The target's ARCH/SRCARCH and the pinned kernel version are
// passed through the child's environment; KCONFIG_ALLCONFIG is scrubbed
// unless a trial sets it deliberately.
type ReferenceTool interface {
	// Invoke runs the reference tool's equivalent of op for the given
	// target. The reference tool writes its snapshot to its fixed filename
	// inside the tree. Invoke blocks until the process exits and returns
	// an error on nonzero exit, with captured output in the message.
	Invoke(ctx context.Context, target ArchTarget, op ReferenceOp) error
}
