package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bethropolis/quill/format"
	"github.com/bethropolis/quill/internal/logger"
)

// TextDocument is the backing store of one rich-text document: an
// element tree rooted in a frame, addressed through the linear offset
// space. All mutation goes through cursors obtained from Cursor or
// CursorAt; observers registered with RegisterCallbacks see one
// coalesced text change per logical operation.
type TextDocument struct {
	store    *store
	notifier *notifier
}

// New creates an empty document: a root frame holding one empty block.
func New() *TextDocument {
	d := &TextDocument{store: newStore(), notifier: newNotifier()}
	root := d.store.createRootFrame()
	b, err := d.store.insertNewBlock(root.ID(), AsChild)
	if err != nil {
		panic(fmt.Sprintf("document: corrupt skeleton: %v", err))
	}
	if _, err := d.store.insertNewText(b.ID(), AsChild); err != nil {
		panic(fmt.Sprintf("document: corrupt skeleton: %v", err))
	}
	return d
}

// NewWithText creates a document holding the given plain text.
// Newlines become block boundaries.
func NewWithText(s string) *TextDocument {
	d := New()
	d.SetPlainText(s)
	return d
}

// RootFrame returns the document's root frame, element 0.
func (d *TextDocument) RootFrame() *Frame { return d.store.rootFrame() }

// Length returns the document's span in offset units: runes plus one
// unit per image plus one unit per block boundary.
func (d *TextDocument) Length() int { return d.store.idx.documentLength() }

// PlainText renders the whole document, joining blocks with newlines
// and images as the object replacement character.
func (d *TextDocument) PlainText() string { return d.store.rootFrame().PlainText() }

// PlainTextBetween renders the range [lo,hi) of the offset space.
func (d *TextDocument) PlainTextBetween(lo, hi int) (string, error) {
	runes := []rune(d.PlainText())
	if lo < 0 || hi > len(runes) || lo > hi {
		return "", fmt.Errorf("range [%d,%d) of %d: %w", lo, hi, len(runes), ErrInvalidRange)
	}
	return string(runes[lo:hi]), nil
}

// Element resolves an identifier. Destroyed identifiers stay invalid
// forever.
func (d *TextDocument) Element(id ElementID) (Element, error) {
	return d.store.get(id)
}

// Locate resolves a global offset to the leaf element owning it and
// the offset inside that leaf. An offset exactly at a boundary
// resolves to the start of the following element.
func (d *TextDocument) Locate(pos int) (Element, int, error) {
	if pos < 0 || pos > d.Length() {
		return nil, 0, fmt.Errorf("offset %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	e, local, ok := d.store.idx.locate(pos, false)
	if !ok {
		return nil, 0, fmt.Errorf("offset %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	return e, local, nil
}

// BlockAt returns the block owning a global offset. An offset at a
// block's end, on its trailing separator, resolves to that block.
func (d *TextDocument) BlockAt(pos int) (*Block, bool) {
	if pos < 0 || pos > d.Length() {
		return nil, false
	}
	return d.store.findBlock(pos)
}

// Blocks returns every block in document order.
func (d *TextDocument) Blocks() []*Block { return d.store.blockList() }

// BlockCount returns the number of blocks in the document.
func (d *TextDocument) BlockCount() int { return len(d.store.blockList()) }

// FirstBlock returns the document's first block.
func (d *TextDocument) FirstBlock() *Block { return d.store.firstBlock() }

// LastBlock returns the document's last block.
func (d *TextDocument) LastBlock() *Block { return d.store.lastBlock() }

// Cursor returns a cursor at the start of the document.
func (d *TextDocument) Cursor() *TextCursor { return &TextCursor{doc: d} }

// CursorAt returns a cursor at the given offset, clamped to the
// document's length.
func (d *TextDocument) CursorAt(pos int) *TextCursor {
	c := &TextCursor{doc: d}
	c.SetPosition(pos, MoveAnchor)
	return c
}

// RegisterCallbacks adds an observer pair; either callback may be nil.
// Observers run synchronously in registration order when the outermost
// logical operation finishes.
func (d *TextDocument) RegisterCallbacks(text func(TextChange), element func(ElementChange)) CallbackID {
	return d.notifier.register(text, element)
}

// UnregisterCallbacks removes an observer, reporting whether the
// identifier was known.
func (d *TextDocument) UnregisterCallbacks(id CallbackID) bool {
	return d.notifier.unregister(id)
}

// AddTextChangeCallback registers a handler for coalesced text changes.
func (d *TextDocument) AddTextChangeCallback(handler func(TextChange)) CallbackID {
	return d.notifier.register(handler, nil)
}

// AddElementChangeCallback registers a handler for element changes.
func (d *TextDocument) AddElementChangeCallback(handler func(ElementChange)) CallbackID {
	return d.notifier.register(nil, handler)
}

// RemoveTextChangeCallback removes a handler registered with
// AddTextChangeCallback.
func (d *TextDocument) RemoveTextChangeCallback(id CallbackID) bool {
	return d.notifier.unregister(id)
}

// RemoveElementChangeCallback removes a handler registered with
// AddElementChangeCallback.
func (d *TextDocument) RemoveElementChangeCallback(id CallbackID) bool {
	return d.notifier.unregister(id)
}

// SetFormat replaces an element's format payload. The payload variant
// must match the element's kind; an actual change is reported as
// FormatChanged on that element.
func (d *TextDocument) SetFormat(id ElementID, f format.Format) error {
	e, err := d.store.get(id)
	if err != nil {
		return err
	}
	d.notifier.begin()
	defer d.notifier.end()

	mismatch := func() error {
		return fmt.Errorf("%v format on element %d (%s): %w", f.FormatKind(), id, e.Kind(), ErrTypeMismatch)
	}
	changed := false
	switch el := e.(type) {
	case *Frame:
		ff, ok := f.(format.FrameFormat)
		if !ok {
			return mismatch()
		}
		changed = el.applyFormat(ff)
	case *Block:
		bf, ok := f.(format.BlockFormat)
		if !ok {
			return mismatch()
		}
		changed = el.applyFormat(bf)
	case *Text:
		tf, ok := f.(format.TextFormat)
		if !ok {
			return mismatch()
		}
		changed = el.applyFormat(tf)
	case *Image:
		imf, ok := f.(format.ImageFormat)
		if !ok {
			return mismatch()
		}
		changed = el.applyFormat(imf)
	}
	if changed {
		d.notifier.noteElement(e, FormatChanged)
	}
	return nil
}

// SetPlainText replaces the whole document content. Observers see a
// single text change covering the old and new lengths and a children
// change on the root frame.
func (d *TextDocument) SetPlainText(s string) error {
	d.notifier.begin()
	defer d.notifier.end()

	oldLen := d.Length()
	root := d.store.rootFrame()
	d.store.removeSubtrees(slices.Clone(d.store.childIDs(root.ID())))
	b, err := d.store.insertNewBlock(root.ID(), AsChild)
	if err != nil {
		return err
	}
	if _, err := d.store.insertNewText(b.ID(), AsChild); err != nil {
		return err
	}
	d.notifier.noteText(0, oldLen, 0)
	d.notifier.noteElement(root, ChildrenChanged)
	if s == "" {
		return nil
	}
	return d.insertPlainText(0, s)
}

// insertPlainText inserts text at a global offset, splitting the
// receiving block at every newline. Text landing on a run boundary
// extends the run ending there.
func (d *TextDocument) insertPlainText(pos int, s string) error {
	if pos < 0 || pos > d.Length() {
		return fmt.Errorf("insert at %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	if s == "" {
		return nil
	}
	d.notifier.begin()
	defer d.notifier.end()

	lenBefore := d.Length()
	block, ok := d.store.findBlock(pos)
	if !ok {
		return fmt.Errorf("insert at %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	local := pos - block.Position()
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			parent, _ := block.Parent()
			next, err := block.split(local)
			if err != nil {
				return err
			}
			d.notifier.noteElement(parent, ChildrenChanged)
			block = next
			local = 0
		}
		if line == "" {
			continue
		}
		run, created, err := block.insertPlainText(line, local)
		if err != nil {
			return err
		}
		if created {
			d.notifier.noteElement(block, ChildrenChanged)
		} else {
			d.notifier.noteElement(run, ContentChanged)
		}
		local += len([]rune(line))
	}
	d.notifier.noteText(pos, 0, d.Length()-lenBefore)
	return nil
}

// insertImage places an inline object at a global offset.
func (d *TextDocument) insertImage(pos int, f format.ImageFormat) (*Image, error) {
	if pos < 0 || pos > d.Length() {
		return nil, fmt.Errorf("insert at %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	d.notifier.begin()
	defer d.notifier.end()

	block, ok := d.store.findBlock(pos)
	if !ok {
		return nil, fmt.Errorf("insert at %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	img, err := block.insertImageAt(pos-block.Position(), f)
	if err != nil {
		return nil, err
	}
	d.notifier.noteText(pos, 0, 1)
	d.notifier.noteElement(block, ChildrenChanged)
	return img, nil
}

// insertBlock splits the block owning pos, starting a new one. The new
// block inherits the old one's format unless an override is given.
func (d *TextDocument) insertBlock(pos int, bf *format.BlockFormat) (*Block, error) {
	if pos < 0 || pos > d.Length() {
		return nil, fmt.Errorf("insert at %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	d.notifier.begin()
	defer d.notifier.end()

	block, ok := d.store.findBlock(pos)
	if !ok {
		return nil, fmt.Errorf("insert at %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	parent, _ := block.Parent()
	next, err := block.split(pos - block.Position())
	if err != nil {
		return nil, err
	}
	if bf != nil {
		next.applyFormat(*bf)
	}
	d.notifier.noteText(pos, 0, 1)
	d.notifier.noteElement(parent, ChildrenChanged)
	return next, nil
}

// insertFrame splits the block owning pos and places a new frame, with
// an empty block inside it, between the halves.
func (d *TextDocument) insertFrame(pos int, f format.FrameFormat) (*Frame, error) {
	if pos < 0 || pos > d.Length() {
		return nil, fmt.Errorf("insert at %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	d.notifier.begin()
	defer d.notifier.end()

	lenBefore := d.Length()
	block, ok := d.store.findBlock(pos)
	if !ok {
		return nil, fmt.Errorf("insert at %d of %d: %w", pos, d.Length(), ErrInvalidRange)
	}
	parent, _ := block.Parent()
	if _, err := block.split(pos - block.Position()); err != nil {
		return nil, err
	}
	fr, err := d.store.insertNewFrame(block.ID(), After)
	if err != nil {
		return nil, err
	}
	fr.format = f
	fb, err := d.store.insertNewBlock(fr.ID(), AsChild)
	if err != nil {
		return nil, err
	}
	if _, err := d.store.insertNewText(fb.ID(), AsChild); err != nil {
		return nil, err
	}
	d.notifier.noteText(pos, 0, d.Length()-lenBefore)
	d.notifier.noteElement(parent, ChildrenChanged)
	return fr, nil
}

// removeRange removes the units in [lo,hi). Blocks directly under the
// range ends' common frame are trimmed and merged across the gap; a
// container crossed by only one end of the range is removed whole.
func (d *TextDocument) removeRange(lo, hi int) error {
	if lo < 0 || hi > d.Length() || lo > hi {
		return fmt.Errorf("range [%d,%d) of %d: %w", lo, hi, d.Length(), ErrInvalidRange)
	}
	if lo == hi {
		return nil
	}
	d.notifier.begin()
	defer d.notifier.end()

	lenBefore := d.Length()
	top, okT := d.store.findBlock(lo)
	bottom, okB := d.store.findBlock(hi)
	if !okT || !okB {
		return fmt.Errorf("range [%d,%d) of %d: %w", lo, hi, d.Length(), ErrInvalidRange)
	}

	if top.ID() == bottom.ID() {
		run, err := top.removeBetween(lo-top.Position(), hi-top.Position())
		if err != nil {
			return err
		}
		d.store.fillEmptyContainers()
		d.notifier.noteText(lo, lenBefore-d.Length(), 0)
		if run != nil {
			d.notifier.noteElement(run, ContentChanged)
		} else {
			d.notifier.noteElement(top, ChildrenChanged)
		}
		return nil
	}

	ancestor := d.store.commonAncestor(top.ID(), bottom.ID())
	topChild, _ := d.store.childOfAncestor(top.ID(), ancestor)
	bottomChild, _ := d.store.childOfAncestor(bottom.ID(), ancestor)
	keepTop := topChild == top.ID()
	keepBottom := bottomChild == bottom.ID()

	if keepTop {
		if _, err := top.removeBetween(lo-top.Position(), top.Length()); err != nil {
			return err
		}
	}
	if keepBottom {
		if _, err := bottom.removeBetween(0, hi-bottom.Position()); err != nil {
			return err
		}
	}

	kids := slices.Clone(d.store.childIDs(ancestor))
	from := slices.Index(kids, topChild)
	to := slices.Index(kids, bottomChild)
	var doomed []ElementID
	if !keepTop {
		doomed = append(doomed, topChild)
	}
	doomed = append(doomed, kids[from+1:to]...)
	if !keepBottom {
		doomed = append(doomed, bottomChild)
	}
	d.store.removeSubtrees(doomed)

	if keepTop && keepBottom {
		if err := top.mergeWith(bottom); err != nil {
			return err
		}
		top.normalizeRuns()
	}
	d.store.fillEmptyContainers()

	ancEl, err := d.store.get(ancestor)
	if err != nil {
		return err
	}
	removed := lenBefore - d.Length()
	logger.Debugf("document: removed [%d,%d) (%d units)", lo, hi, removed)
	d.notifier.noteText(lo, removed, 0)
	d.notifier.noteElement(ancEl, ChildrenChanged)
	return nil
}

// splitRunBoundary turns a global offset into a run boundary, splitting
// the run spanning it when needed.
func (d *TextDocument) splitRunBoundary(pos int) error {
	e, local, ok := d.store.idx.locate(pos, true)
	if !ok {
		return nil
	}
	t, isText := e.(*Text)
	if !isText || local <= 0 || local >= t.Length() {
		return nil
	}
	_, err := t.split(local)
	return err
}

// textRunsInRange returns the runs exactly covering [lo,hi), splitting
// boundary runs first so each returned run lies fully inside the range.
func (d *TextDocument) textRunsInRange(lo, hi int) ([]*Text, error) {
	if lo >= hi {
		return nil, nil
	}
	if err := d.splitRunBoundary(hi); err != nil {
		return nil, err
	}
	if err := d.splitRunBoundary(lo); err != nil {
		return nil, err
	}
	var out []*Text
	for _, e := range d.store.descendants(d.store.rootID) {
		t, ok := e.(*Text)
		if !ok {
			continue
		}
		if t.Start() >= lo && t.End() <= hi {
			out = append(out, t)
		}
	}
	return out, nil
}

// blocksInRange returns the blocks whose spans intersect [lo,hi]; for
// an empty range, the block owning the position.
func (d *TextDocument) blocksInRange(lo, hi int) []*Block {
	var out []*Block
	for _, b := range d.store.blockList() {
		if b.Start() <= hi && b.End() >= lo {
			out = append(out, b)
		}
	}
	return out
}
