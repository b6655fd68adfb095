package document

import (
	"fmt"
	"slices"

	"github.com/bethropolis/quill/format"
)

// Text is a contiguous run of characters sharing one format.
type Text struct {
	meta
	text   []rune
	format format.TextFormat
}

// Kind implements Element.
func (t *Text) Kind() Kind { return KindText }

// Length returns the run's rune count.
func (t *Text) Length() int { return len(t.text) }

// PlainText returns the run's characters.
func (t *Text) PlainText() string { return string(t.text) }

// Format implements Element.
func (t *Text) Format() format.Format { return t.format }

// TextFormat returns the run's character format.
func (t *Text) TextFormat() format.TextFormat { return t.format }

// PositionInBlock returns the run's offset within its parent block.
func (t *Text) PositionInBlock() int {
	b, ok := t.parentBlock()
	if !ok {
		return 0
	}
	return b.offsetOfChild(t.id)
}

func (t *Text) parentBlock() (*Block, bool) {
	p, ok := t.Parent()
	if !ok {
		return nil, false
	}
	b, ok := p.(*Block)
	return b, ok
}

func (t *Text) checkParent(parent Element) error {
	if parent.Kind() != KindBlock {
		return fmt.Errorf("text run under %s: %w", parent.Kind(), ErrStructuralViolation)
	}
	return nil
}

func (t *Text) setText(s string) {
	t.text = []rune(s)
	t.store.idx.invalidate(t.id)
}

func (t *Text) insertAt(pos int, s string) error {
	if pos < 0 || pos > len(t.text) {
		return fmt.Errorf("insert at %d in run of %d: %w", pos, len(t.text), ErrInvalidRange)
	}
	t.text = slices.Insert(t.text, pos, []rune(s)...)
	t.store.idx.invalidate(t.id)
	return nil
}

func (t *Text) removeBetween(lo, hi int) error {
	if lo < 0 || lo > hi || hi > len(t.text) {
		return fmt.Errorf("remove [%d,%d) in run of %d: %w", lo, hi, len(t.text), ErrInvalidRange)
	}
	t.text = slices.Delete(t.text, lo, hi)
	t.store.idx.invalidate(t.id)
	return nil
}

// split divides the run at pos. The new run is inserted as the next
// sibling, takes the tail of the text and a copy of the format.
func (t *Text) split(pos int) (*Text, error) {
	if pos < 0 || pos > len(t.text) {
		return nil, fmt.Errorf("split at %d in run of %d: %w", pos, len(t.text), ErrInvalidRange)
	}
	tail, err := t.store.insertNewText(t.id, After)
	if err != nil {
		return nil, err
	}
	tail.text = slices.Clone(t.text[pos:])
	tail.format = t.format
	t.text = t.text[:pos:pos]
	t.store.idx.invalidate(t.id)
	return tail, nil
}

// applyFormat replaces the run's format, reporting whether it changed.
func (t *Text) applyFormat(f format.TextFormat) bool {
	if t.format.Equal(f) {
		return false
	}
	t.format = f
	return true
}

func (t *Text) mergeFormat(f format.TextFormat) bool {
	return t.format.MergeWith(f)
}
