package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bethropolis/quill/format"
)

// Block is a paragraph-level container holding text runs and inline
// images. Blocks contribute their children's lengths to the offset
// space; the separator unit between sibling blocks belongs to the
// enclosing frame.
type Block struct {
	meta
	format format.BlockFormat
}

// Kind implements Element.
func (b *Block) Kind() Kind { return KindBlock }

// Length returns the sum of the children's spans.
func (b *Block) Length() int { return b.store.idx.length(b.id) }

// Children returns the block's runs and images in order.
func (b *Block) Children() []Element { return b.store.childrenOf(b.id) }

// Position returns the block's first position in the linear offset
// space.
func (b *Block) Position() int { return b.Start() }

// Number returns the block's zero-based index among all blocks of the
// document, in document order.
func (b *Block) Number() int {
	for i, blk := range b.store.blockList() {
		if blk.id == b.id {
			return i
		}
	}
	return 0
}

// PlainText concatenates the children's plain text. Images appear as
// the object replacement character.
func (b *Block) PlainText() string {
	var sb strings.Builder
	for _, c := range b.Children() {
		sb.WriteString(c.PlainText())
	}
	return sb.String()
}

// Format implements Element.
func (b *Block) Format() format.Format { return b.format }

// BlockFormat returns the block's paragraph format.
func (b *Block) BlockFormat() format.BlockFormat { return b.format }

func (b *Block) checkParent(parent Element) error {
	if parent.Kind() != KindFrame {
		return fmt.Errorf("block under %s: %w", parent.Kind(), ErrStructuralViolation)
	}
	return nil
}

func (b *Block) applyFormat(bf format.BlockFormat) bool {
	if b.format.Equal(bf) {
		return false
	}
	b.format = bf
	return true
}

func (b *Block) mergeFormat(bf format.BlockFormat) bool {
	return b.format.MergeWith(bf)
}

// findLeaf resolves a block-local offset to the child owning it,
// end-biased: an offset exactly at a run boundary resolves to the run
// ending there, so an insertion extends the preceding run's format.
func (b *Block) findLeaf(pos int) (Element, bool) {
	kids := b.Children()
	if len(kids) == 0 {
		return nil, false
	}
	if pos <= 0 {
		return kids[0], true
	}
	off := 0
	for _, c := range kids {
		l := c.Length()
		if pos >= off && pos <= off+l {
			return c, true
		}
		off += l
	}
	return nil, false
}

// toChildOffset converts a block-local offset to an offset inside the
// child resolved by findLeaf.
func (b *Block) toChildOffset(pos int) int {
	if pos <= 0 {
		return 0
	}
	off := 0
	for _, c := range b.Children() {
		l := c.Length()
		if pos <= off+l {
			return pos - off
		}
		off += l
	}
	return pos - off
}

// offsetOfChild returns the block-local offset at which the given child
// starts.
func (b *Block) offsetOfChild(id ElementID) int {
	off := 0
	for _, c := range b.Children() {
		if c.ID() == id {
			break
		}
		off += c.Length()
	}
	return off
}

// textFormatAt returns the character format in effect at a block-local
// offset: the format of the run ending at or spanning the position.
// Reports false when the position resolves to an image.
func (b *Block) textFormatAt(pos int) (format.TextFormat, bool) {
	leaf, ok := b.findLeaf(pos)
	if !ok {
		return format.TextFormat{}, false
	}
	t, ok := leaf.(*Text)
	if !ok {
		return format.TextFormat{}, false
	}
	return t.format, true
}

// textFormat returns the block's leading character format: the format
// of its first text run.
func (b *Block) textFormat() format.TextFormat {
	for _, c := range b.Children() {
		if t, ok := c.(*Text); ok {
			return t.format
		}
	}
	return format.TextFormat{}
}

// insertPlainText inserts a newline-free string at a block-local
// offset. The receiving run is the one ending at the offset; text
// landing on an image boundary goes into a fresh run carrying the
// block's leading character format. Returns the run that received the
// text and whether it was newly created.
func (b *Block) insertPlainText(s string, pos int) (*Text, bool, error) {
	leaf, ok := b.findLeaf(pos)
	if !ok {
		t, err := b.store.insertNewText(b.id, AsChild)
		if err != nil {
			return nil, false, err
		}
		t.setText(s)
		return t, true, nil
	}
	switch leaf := leaf.(type) {
	case *Text:
		if err := leaf.insertAt(b.toChildOffset(pos), s); err != nil {
			return nil, false, err
		}
		return leaf, false, nil
	case *Image:
		t, err := b.insertTextElement(pos)
		if err != nil {
			return nil, false, err
		}
		t.setText(s)
		t.format = b.textFormat()
		return t, true, nil
	}
	return nil, false, fmt.Errorf("block %d holds a %s: %w", b.id, leaf.Kind(), ErrStructuralViolation)
}

// insertTextElement creates an empty run at a block-local offset,
// splitting the run spanning the offset when it does not fall on a run
// boundary.
func (b *Block) insertTextElement(pos int) (*Text, error) {
	leaf, ok := b.findLeaf(pos)
	if !ok {
		return b.store.insertNewText(b.id, AsChild)
	}
	switch leaf := leaf.(type) {
	case *Text:
		local := b.toChildOffset(pos)
		if local < leaf.Length() {
			if _, err := leaf.split(local); err != nil {
				return nil, err
			}
		}
		return b.store.insertNewText(leaf.ID(), After)
	case *Image:
		mode := After
		if b.offsetOfChild(leaf.ID()) == pos {
			mode = Before
		}
		return b.store.insertNewText(leaf.ID(), mode)
	}
	return nil, fmt.Errorf("block %d holds a %s: %w", b.id, leaf.Kind(), ErrStructuralViolation)
}

// insertImageAt places an image at a block-local offset, splitting the
// run spanning the offset when it does not fall on a child boundary.
func (b *Block) insertImageAt(local int, f format.ImageFormat) (*Image, error) {
	leaf, ok := b.findLeaf(local)
	if !ok {
		img, err := b.store.insertNewImage(b.id, AsChild)
		if err != nil {
			return nil, err
		}
		img.format = f
		return img, nil
	}
	mode := After
	switch leaf := leaf.(type) {
	case *Text:
		lp := b.toChildOffset(local)
		if lp == 0 {
			mode = Before
		} else if lp < leaf.Length() {
			if _, err := leaf.split(lp); err != nil {
				return nil, err
			}
		}
	case *Image:
		if b.offsetOfChild(leaf.ID()) == local {
			mode = Before
		}
	}
	img, err := b.store.insertNewImage(leaf.ID(), mode)
	if err != nil {
		return nil, err
	}
	img.format = f
	return img, nil
}

// split divides the block at a block-local offset. A new block is
// created as the next sibling; the children from the offset onward move
// into it. Splitting inside a run splits the run first, so the new
// block always starts with a child, possibly an empty run.
func (b *Block) split(pos int) (*Block, error) {
	next, err := b.store.insertNewBlock(b.id, After)
	if err != nil {
		return nil, err
	}
	next.format = b.format

	leaf, ok := b.findLeaf(pos)
	if !ok {
		return next, nil
	}
	var first Element
	switch leaf := leaf.(type) {
	case *Text:
		tail, err := leaf.split(b.toChildOffset(pos))
		if err != nil {
			return nil, err
		}
		first = tail
	case *Image:
		if b.offsetOfChild(leaf.ID()) == pos {
			// the image itself moves; leave a run behind so the block
			// keeps a child
			if _, err := b.store.insertNewText(leaf.ID(), Before); err != nil {
				return nil, err
			}
			first = leaf
		} else {
			after, err := b.store.insertNewText(leaf.ID(), After)
			if err != nil {
				return nil, err
			}
			first = after
		}
	}

	kids := slices.Clone(b.store.childIDs(b.id))
	at := slices.Index(kids, first.ID())
	for _, cid := range kids[at:] {
		if err := b.store.moveToParent(cid, next.id); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// mergeWith appends the other block's children to this block and
// destroys the emptied block. The caller owns run normalization.
func (b *Block) mergeWith(other *Block) error {
	for _, cid := range slices.Clone(b.store.childIDs(other.id)) {
		if err := b.store.moveToParent(cid, b.id); err != nil {
			return err
		}
	}
	b.store.removeSubtrees([]ElementID{other.id})
	return nil
}

// normalizeRuns prunes emptied runs (keeping at least one child) and
// merges adjacent runs of equal format. Reports whether the child list
// changed.
func (b *Block) normalizeRuns() bool {
	changed := false
	for {
		kids := b.store.childIDs(b.id)
		if len(kids) <= 1 {
			break
		}
		pruned := false
		for _, cid := range kids {
			if t, ok := b.store.elements[cid].(*Text); ok && len(t.text) == 0 {
				b.store.removeSubtrees([]ElementID{cid})
				pruned, changed = true, true
				break
			}
		}
		if !pruned {
			break
		}
	}
	for {
		kids := b.store.childIDs(b.id)
		merged := false
		for i := 0; i+1 < len(kids); i++ {
			t1, ok1 := b.store.elements[kids[i]].(*Text)
			t2, ok2 := b.store.elements[kids[i+1]].(*Text)
			if !ok1 || !ok2 || !t1.format.Equal(t2.format) {
				continue
			}
			t1.text = append(t1.text, t2.text...)
			b.store.removeSubtrees([]ElementID{kids[i+1]})
			b.store.idx.invalidate(t1.id)
			merged, changed = true, true
			break
		}
		if !merged {
			break
		}
	}
	return changed
}

// removeBetween removes the block-local range [lo,hi). Runs crossed by
// the range are trimmed, children strictly inside it are destroyed,
// and the surviving runs are normalized. When one surviving run
// absorbed the whole edit without structural cleanup, it is returned.
func (b *Block) removeBetween(lo, hi int) (*Text, error) {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return nil, nil
	}

	left, okL := b.findLeaf(lo)
	right, okR := b.findLeaf(hi)
	if !okL || !okR {
		return nil, fmt.Errorf("range [%d,%d) in block of %d: %w", lo, hi, b.Length(), ErrInvalidRange)
	}

	if left.ID() == right.ID() {
		switch leaf := left.(type) {
		case *Text:
			if err := leaf.removeBetween(b.toChildOffset(lo), b.toChildOffset(lo)+(hi-lo)); err != nil {
				return nil, err
			}
			if !b.normalizeRuns() {
				return leaf, nil
			}
		case *Image:
			b.store.removeSubtrees([]ElementID{leaf.ID()})
			b.normalizeRuns()
		}
		return nil, nil
	}

	kids := slices.Clone(b.store.childIDs(b.id))
	from := slices.Index(kids, left.ID())
	to := slices.Index(kids, right.ID())

	switch leaf := right.(type) {
	case *Text:
		if err := leaf.removeBetween(0, b.toChildOffset(hi)); err != nil {
			return nil, err
		}
	case *Image:
		b.store.removeSubtrees([]ElementID{leaf.ID()})
	}
	switch leaf := left.(type) {
	case *Text:
		if err := leaf.removeBetween(b.toChildOffset(lo), leaf.Length()); err != nil {
			return nil, err
		}
	case *Image:
		if b.offsetOfChild(leaf.ID()) >= lo {
			b.store.removeSubtrees([]ElementID{leaf.ID()})
		}
	}
	if to > from+1 {
		b.store.removeSubtrees(kids[from+1 : to])
	}
	b.normalizeRuns()
	return nil, nil
}
