package types

// OptionFlags is an immutable-per-call bitset of operation behaviours.
// A process-wide baseline is copied and augmented per envelope; the
// baseline itself is never mutated, so one envelope's flags cannot leak
// into the next.
type OptionFlags uint32

const (
	FlagPrintACL OptionFlags = 1 << iota
	FlagPrintAVU
	FlagPrintChecksum
	FlagCalculateChecksum
	FlagPrintContents
	FlagPrintReplicas
	FlagPrintSize
	FlagPrintTimestamp
	FlagRecursive
	FlagForce
	FlagSearchCollections
	FlagSearchObjects
	FlagSingleServer
	FlagSaveFiles
	FlagPrintRaw
	FlagAddAVU
	FlagRemoveAVU
)

// Has reports whether every bit in mask is set.
func (f OptionFlags) Has(mask OptionFlags) bool {
	return f&mask == mask
}

// With returns a copy of f with the bits in mask set.
func (f OptionFlags) With(mask OptionFlags) OptionFlags {
	return f | mask
}

// CallOptions is the per-call options record threaded through a dispatch.
// It is a plain value: every dispatch receives its own copy, and the Path
// string is owned by the copy (it outlives the source JSON).
type CallOptions struct {
	Flags      OptionFlags
	BufferSize int
	Zone       string
	Path       string
}
