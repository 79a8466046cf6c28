package treediff

// Kind classifies a difference.
type Kind string

const (
	// Added marks a value present only on the right side.
	Added Kind = "added"
	// Removed marks a value present only on the left side.
	Removed Kind = "removed"
	// Changed marks a value present on both sides with different content.
	Changed Kind = "changed"
)

// Entry is a single difference anchored to a JSON Pointer path. Added
// entries carry no old value and Removed entries no new value. Entries are
// created during a single Compare call and never mutated afterward.
type Entry struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
	Old  *Node  `json:"oldValue,omitempty"`
	New  *Node  `json:"newValue,omitempty"`
}
