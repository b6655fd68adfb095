package document

import (
	"github.com/rivo/uniseg"

	"github.com/bethropolis/quill/format"
)

// MoveMode controls whether a position change drags the anchor along.
type MoveMode int

const (
	// MoveAnchor moves the anchor with the position, collapsing any
	// selection.
	MoveAnchor MoveMode = iota
	// KeepAnchor leaves the anchor in place, extending the selection.
	KeepAnchor
)

// MoveOperation names a cursor movement for MovePosition.
type MoveOperation int

const (
	Start MoveOperation = iota
	End
	Left
	Right
	NextCharacter
	PreviousCharacter
	StartOfBlock
	EndOfBlock
	PreviousBlock
	NextBlock
)

// TextCursor edits a document through a position and an anchor in the
// linear offset space. Both are plain offsets, re-resolved against the
// document on every call: edits made elsewhere never invalidate a
// cursor, they only shift what its offsets address. Positions past the
// document end clamp to it.
type TextCursor struct {
	doc      *TextDocument
	position int
	anchor   int
}

// Document returns the document this cursor edits.
func (c *TextCursor) Document() *TextDocument { return c.doc }

func (c *TextCursor) clamp(p int) int {
	if p < 0 {
		return 0
	}
	if l := c.doc.Length(); p > l {
		return l
	}
	return p
}

// Position returns the cursor position, clamped to the current
// document length.
func (c *TextCursor) Position() int { return c.clamp(c.position) }

// Anchor returns the selection anchor, clamped to the current document
// length.
func (c *TextCursor) Anchor() int { return c.clamp(c.anchor) }

// HasSelection reports whether position and anchor differ.
func (c *TextCursor) HasSelection() bool { return c.Position() != c.Anchor() }

// SelectionStart returns the lower end of the selection.
func (c *TextCursor) SelectionStart() int { return min(c.Position(), c.Anchor()) }

// SelectionEnd returns the upper end of the selection.
func (c *TextCursor) SelectionEnd() int { return max(c.Position(), c.Anchor()) }

// SelectedText renders the selection as plain text, with block
// boundaries as newlines.
func (c *TextCursor) SelectedText() string {
	s, err := c.doc.PlainTextBetween(c.SelectionStart(), c.SelectionEnd())
	if err != nil {
		return ""
	}
	return s
}

// ClearSelection collapses the selection onto the position.
func (c *TextCursor) ClearSelection() {
	c.position = c.Position()
	c.anchor = c.position
}

// SetPosition moves the cursor, clamping to the document bounds.
func (c *TextCursor) SetPosition(pos int, mode MoveMode) {
	c.position = c.clamp(pos)
	if mode == MoveAnchor {
		c.anchor = c.position
	}
}

// MovePosition applies a movement n times (n below 1 counts as 1) and
// reports whether the position changed.
func (c *TextCursor) MovePosition(op MoveOperation, mode MoveMode, n int) bool {
	if n < 1 {
		n = 1
	}
	old := c.Position()
	pos := old
	switch op {
	case Start:
		pos = 0
	case End:
		pos = c.doc.Length()
	case Left:
		pos -= n
	case Right:
		pos += n
	case NextCharacter:
		for ; n > 0; n-- {
			pos = c.nextCharacter(pos)
		}
	case PreviousCharacter:
		for ; n > 0; n-- {
			pos = c.previousCharacter(pos)
		}
	case StartOfBlock:
		if b, ok := c.doc.BlockAt(pos); ok {
			pos = b.Position()
		}
	case EndOfBlock:
		if b, ok := c.doc.BlockAt(pos); ok {
			pos = b.End()
		}
	case PreviousBlock:
		for ; n > 0; n-- {
			b, ok := c.doc.BlockAt(pos)
			if !ok || b.Position() == 0 {
				break
			}
			prev, ok := c.doc.BlockAt(b.Position() - 1)
			if !ok {
				break
			}
			pos = prev.Position()
		}
	case NextBlock:
		for ; n > 0; n-- {
			b, ok := c.doc.BlockAt(pos)
			if !ok || b.End() >= c.doc.Length() {
				break
			}
			next, ok := c.doc.BlockAt(b.End() + 1)
			if !ok {
				break
			}
			pos = next.Position()
		}
	}
	c.SetPosition(pos, mode)
	return c.Position() != old
}

// nextCharacter advances one grapheme cluster, or one unit across a
// block boundary or image.
func (c *TextCursor) nextCharacter(pos int) int {
	b, ok := c.doc.BlockAt(pos)
	if !ok {
		return pos
	}
	local := pos - b.Position()
	runes := []rune(b.PlainText())
	if local >= len(runes) {
		if pos < c.doc.Length() {
			return pos + 1
		}
		return pos
	}
	g := uniseg.NewGraphemes(string(runes[local:]))
	if g.Next() {
		return pos + len(g.Runes())
	}
	return pos + 1
}

// previousCharacter steps back one grapheme cluster, or one unit across
// a block boundary or image.
func (c *TextCursor) previousCharacter(pos int) int {
	if pos <= 0 {
		return 0
	}
	b, ok := c.doc.BlockAt(pos)
	if !ok {
		return pos - 1
	}
	local := pos - b.Position()
	if local == 0 {
		return pos - 1
	}
	g := uniseg.NewGraphemes(string([]rune(b.PlainText())[:local]))
	boundary := 0
	for consumed := 0; g.Next(); {
		consumed += len(g.Runes())
		if consumed >= local {
			break
		}
		boundary = consumed
	}
	return b.Position() + boundary
}

// CurrentBlock returns the block owning the cursor position; a
// position at a block's end still belongs to that block.
func (c *TextCursor) CurrentBlock() *Block {
	b, _ := c.doc.BlockAt(c.Position())
	return b
}

// CurrentFrame returns the frame enclosing the cursor's block.
func (c *TextCursor) CurrentFrame() *Frame {
	b := c.CurrentBlock()
	if b == nil {
		return c.doc.RootFrame()
	}
	p, ok := b.Parent()
	if !ok {
		return c.doc.RootFrame()
	}
	return p.(*Frame)
}

// InsertText inserts plain text at the cursor, replacing any
// selection. Newlines split blocks. The cursor ends just after the
// inserted content; observers see a single coalesced text change.
func (c *TextCursor) InsertText(s string) error {
	c.doc.notifier.begin()
	defer c.doc.notifier.end()

	if c.HasSelection() {
		if err := c.removeSelection(); err != nil {
			return err
		}
	}
	pos := c.Position()
	before := c.doc.Length()
	if err := c.doc.insertPlainText(pos, s); err != nil {
		return err
	}
	c.position = pos + c.doc.Length() - before
	c.anchor = c.position
	return nil
}

// InsertBlock starts a new block at the cursor, replacing any
// selection. The new block inherits the current block's format unless
// an override is given; the cursor moves to its start.
func (c *TextCursor) InsertBlock(bf *format.BlockFormat) (*Block, error) {
	c.doc.notifier.begin()
	defer c.doc.notifier.end()

	if c.HasSelection() {
		if err := c.removeSelection(); err != nil {
			return nil, err
		}
	}
	b, err := c.doc.insertBlock(c.Position(), bf)
	if err != nil {
		return nil, err
	}
	c.position = b.Position()
	c.anchor = c.position
	return b, nil
}

// InsertFrame places a new frame at the cursor, replacing any
// selection, and moves the cursor inside it.
func (c *TextCursor) InsertFrame(f format.FrameFormat) (*Frame, error) {
	c.doc.notifier.begin()
	defer c.doc.notifier.end()

	if c.HasSelection() {
		if err := c.removeSelection(); err != nil {
			return nil, err
		}
	}
	fr, err := c.doc.insertFrame(c.Position(), f)
	if err != nil {
		return nil, err
	}
	c.position = fr.Start()
	c.anchor = c.position
	return fr, nil
}

// InsertImage places an inline object at the cursor, replacing any
// selection. The cursor ends just after it.
func (c *TextCursor) InsertImage(f format.ImageFormat) (*Image, error) {
	c.doc.notifier.begin()
	defer c.doc.notifier.end()

	if c.HasSelection() {
		if err := c.removeSelection(); err != nil {
			return nil, err
		}
	}
	pos := c.Position()
	img, err := c.doc.insertImage(pos, f)
	if err != nil {
		return nil, err
	}
	c.position = pos + 1
	c.anchor = c.position
	return img, nil
}

// RemoveSelectedText removes the selection. Without one this is a
// no-op and observers hear nothing.
func (c *TextCursor) RemoveSelectedText() error {
	if !c.HasSelection() {
		return nil
	}
	c.doc.notifier.begin()
	defer c.doc.notifier.end()
	return c.removeSelection()
}

func (c *TextCursor) removeSelection() error {
	lo, hi := c.SelectionStart(), c.SelectionEnd()
	if err := c.doc.removeRange(lo, hi); err != nil {
		return err
	}
	c.position = c.clamp(lo)
	c.anchor = c.position
	return nil
}

// DeletePreviousCharacter removes the selection, or the single offset
// unit before the cursor: a rune, an image, or a block separator,
// which merges the two blocks.
func (c *TextCursor) DeletePreviousCharacter() error {
	if c.HasSelection() {
		return c.RemoveSelectedText()
	}
	pos := c.Position()
	if pos == 0 {
		return nil
	}
	c.doc.notifier.begin()
	defer c.doc.notifier.end()
	if err := c.doc.removeRange(pos-1, pos); err != nil {
		return err
	}
	c.position = pos - 1
	c.anchor = c.position
	return nil
}

// DeleteCharacter removes the selection, or the single offset unit at
// the cursor.
func (c *TextCursor) DeleteCharacter() error {
	if c.HasSelection() {
		return c.RemoveSelectedText()
	}
	pos := c.Position()
	if pos >= c.doc.Length() {
		return nil
	}
	return c.doc.removeRange(pos, pos+1)
}

// TextFormat returns the character format in effect at the cursor: the
// format of the run ending at or spanning the position.
func (c *TextCursor) TextFormat() format.TextFormat {
	b := c.CurrentBlock()
	if b == nil {
		return format.TextFormat{}
	}
	f, _ := b.textFormatAt(c.Position() - b.Position())
	return f
}

// BlockFormat returns the current block's format.
func (c *TextCursor) BlockFormat() format.BlockFormat {
	b := c.CurrentBlock()
	if b == nil {
		return format.BlockFormat{}
	}
	return b.BlockFormat()
}

// FrameFormat returns the format of the frame enclosing the cursor.
func (c *TextCursor) FrameFormat() format.FrameFormat {
	fr := c.CurrentFrame()
	if fr == nil {
		return format.FrameFormat{}
	}
	return fr.FrameFormat()
}

// SetTextFormat replaces the character format of every run in the
// selection, splitting partially covered runs. Runs whose format
// already matches are not reported. Without a selection this is a
// no-op.
func (c *TextCursor) SetTextFormat(f format.TextFormat) error {
	return c.formatRuns(func(t *Text) bool { return t.applyFormat(f) })
}

// MergeTextFormat overlays the set fields of f onto every run in the
// selection.
func (c *TextCursor) MergeTextFormat(f format.TextFormat) error {
	return c.formatRuns(func(t *Text) bool { return t.mergeFormat(f) })
}

func (c *TextCursor) formatRuns(apply func(*Text) bool) error {
	if !c.HasSelection() {
		return nil
	}
	c.doc.notifier.begin()
	defer c.doc.notifier.end()

	runs, err := c.doc.textRunsInRange(c.SelectionStart(), c.SelectionEnd())
	if err != nil {
		return err
	}
	for _, t := range runs {
		if apply(t) {
			c.doc.notifier.noteElement(t, FormatChanged)
		}
	}
	return nil
}

// SetBlockFormat replaces the format of every block the selection
// touches; without a selection, the current block.
func (c *TextCursor) SetBlockFormat(f format.BlockFormat) error {
	return c.formatBlocks(func(b *Block) bool { return b.applyFormat(f) })
}

// MergeBlockFormat overlays the set fields of f onto every block the
// selection touches; without a selection, the current block.
func (c *TextCursor) MergeBlockFormat(f format.BlockFormat) error {
	return c.formatBlocks(func(b *Block) bool { return b.mergeFormat(f) })
}

func (c *TextCursor) formatBlocks(apply func(*Block) bool) error {
	c.doc.notifier.begin()
	defer c.doc.notifier.end()

	for _, b := range c.doc.blocksInRange(c.SelectionStart(), c.SelectionEnd()) {
		if apply(b) {
			c.doc.notifier.noteElement(b, FormatChanged)
		}
	}
	return nil
}

// SetFrameFormat replaces the format of the frame enclosing the
// cursor.
func (c *TextCursor) SetFrameFormat(f format.FrameFormat) error {
	return c.formatFrame(func(fr *Frame) bool { return fr.applyFormat(f) })
}

// MergeFrameFormat overlays the set fields of f onto the frame
// enclosing the cursor.
func (c *TextCursor) MergeFrameFormat(f format.FrameFormat) error {
	return c.formatFrame(func(fr *Frame) bool { return fr.mergeFormat(f) })
}

func (c *TextCursor) formatFrame(apply func(*Frame) bool) error {
	fr := c.CurrentFrame()
	if fr == nil {
		return nil
	}
	c.doc.notifier.begin()
	defer c.doc.notifier.end()
	if apply(fr) {
		c.doc.notifier.noteElement(fr, FormatChanged)
	}
	return nil
}
