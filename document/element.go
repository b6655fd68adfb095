package document

import "github.com/bethropolis/quill/format"

// ElementID is the process-unique, stable identifier of an element.
// Identifiers are assigned monotonically and never reused; a destroyed
// element's identifier is permanently invalid. The root frame of a
// document is always element 0.
type ElementID uint64

// Kind identifies an element variant.
type Kind int

const (
	KindFrame Kind = iota
	KindBlock
	KindText
	KindImage
)

// String returns a human-readable name for the element kind.
func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindBlock:
		return "block"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Element is the interface shared by Frame, Block, Text and Image.
// All accessors are read-only; mutation goes through TextDocument and
// TextCursor.
type Element interface {
	// ID returns the element's stable identifier.
	ID() ElementID

	// Kind returns the element variant.
	Kind() Kind

	// Length is the element's span in the linear offset space: the rune
	// count for a text run, 1 for an image, and for containers the sum
	// over children including block separators.
	Length() int

	// Start returns the element's first position in the linear offset
	// space of its document.
	Start() int

	// End returns the position just past the element's content.
	End() int

	// PlainText resolves the element's textual content; containers join
	// block-level children with "\n".
	PlainText() string

	// Parent returns the containing element, or false for the root
	// frame.
	Parent() (Element, bool)

	// Format returns the element's format payload as the closed union
	// type.
	Format() format.Format

	setID(id ElementID)

	// checkParent enforces the nesting rule against a prospective
	// parent.
	checkParent(parent Element) error
}

// meta carries the identity and back-reference every element shares.
type meta struct {
	id    ElementID
	store *store
}

func (m *meta) ID() ElementID      { return m.id }
func (m *meta) setID(id ElementID) { m.id = id }

func (m *meta) Parent() (Element, bool) {
	return m.store.parentOf(m.id)
}

func (m *meta) Start() int {
	return m.store.idx.startOf(m.id)
}

func (m *meta) End() int {
	return m.store.idx.startOf(m.id) + m.store.idx.length(m.id)
}
