package document

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/bethropolis/quill/format"
)

func TestSetPlainText(t *testing.T) {
	d := New()
	err := d.SetPlainText("beginning\nblock\nend")
	assert.Equal(t, err, nil)
	assert.Equal(t, "beginning\nblock\nend", d.PlainText())
	assert.Equal(t, 19, d.Length())
	assert.Equal(t, 3, len(d.Blocks()))

	// replacing the content keeps the root frame's identity
	err = d.SetPlainText("x")
	assert.Equal(t, err, nil)
	assert.Equal(t, ElementID(0), d.RootFrame().ID())
	assert.Equal(t, "x", d.PlainText())
	assert.Equal(t, 1, len(d.Blocks()))
}

func TestSetPlainTextSignalsOnce(t *testing.T) {
	d := NewWithText("hello")
	var changes []TextChange
	var rootChildren int
	d.RegisterCallbacks(
		func(c TextChange) { changes = append(changes, c) },
		func(c ElementChange) {
			if c.Element.ID() == 0 && c.Reason == ChildrenChanged {
				rootChildren++
			}
		},
	)

	err := d.SetPlainText("ab\ncd")
	assert.Equal(t, err, nil)
	assert.Equal(t, 1, len(changes))
	assert.Equal(t, TextChange{Position: 0, Removed: 5, Added: 5}, changes[0])
	assert.Equal(t, 1, rootChildren)
}

func TestInsertTextWithNewlines(t *testing.T) {
	d := New()
	assert.Equal(t, nil, d.SetPlainText("beginningend"))

	var changes []TextChange
	var rootChildren int
	d.RegisterCallbacks(
		func(c TextChange) { changes = append(changes, c) },
		func(c ElementChange) {
			if c.Element.ID() == 0 && c.Reason == ChildrenChanged {
				rootChildren++
			}
		},
	)

	c := d.CursorAt(9)
	err := c.InsertText("new\nplain_text\ntest")
	assert.Equal(t, err, nil)

	assert.Equal(t, "beginningnew\nplain_text\ntestend", d.PlainText())
	assert.Equal(t, 3, len(d.Blocks()))
	assert.Equal(t, 28, c.Position())

	// one coalesced change for the whole insertion, root reported once
	assert.Equal(t, 1, len(changes))
	assert.Equal(t, TextChange{Position: 9, Removed: 0, Added: 19}, changes[0])
	assert.Equal(t, 1, rootChildren)
}

func TestRemoveRangeWithinBlock(t *testing.T) {
	d := NewWithText("hello world")
	var changes []TextChange
	var content []ElementChange
	d.RegisterCallbacks(
		func(c TextChange) { changes = append(changes, c) },
		func(c ElementChange) { content = append(content, c) },
	)

	c := d.CursorAt(2)
	c.SetPosition(4, KeepAnchor)
	assert.Equal(t, nil, c.RemoveSelectedText())

	assert.Equal(t, "heo world", d.PlainText())
	assert.Equal(t, 2, c.Position())
	assert.Equal(t, 1, len(changes))
	assert.Equal(t, TextChange{Position: 2, Removed: 2, Added: 0}, changes[0])

	// the surviving run absorbed the edit
	assert.Equal(t, 1, len(content))
	assert.Equal(t, ContentChanged, content[0].Reason)
	assert.Equal(t, KindText, content[0].Element.Kind())
}

func TestRemoveRangeAcrossBlocks(t *testing.T) {
	d := NewWithText("beginning\nblock\nend")
	var changes []TextChange
	d.RegisterCallbacks(func(c TextChange) { changes = append(changes, c) }, nil)

	c := d.CursorAt(3)
	c.SetPosition(17, KeepAnchor)
	assert.Equal(t, nil, c.RemoveSelectedText())

	assert.Equal(t, "begnd", d.PlainText())
	assert.Equal(t, 1, len(d.Blocks()))
	assert.Equal(t, 3, c.Position())
	assert.Equal(t, 1, len(changes))
	assert.Equal(t, TextChange{Position: 3, Removed: 14, Added: 0}, changes[0])

	// the merged block collapses to a single run
	assert.Equal(t, 1, len(d.FirstBlock().Children()))
}

func TestRemoveSeparatorMergesBlocks(t *testing.T) {
	d := NewWithText("ab\ncd")
	c := d.CursorAt(2)
	c.SetPosition(3, KeepAnchor)
	assert.Equal(t, nil, c.RemoveSelectedText())

	assert.Equal(t, "abcd", d.PlainText())
	assert.Equal(t, 1, len(d.Blocks()))
}

func TestRemoveWholeDocumentKeepsSkeleton(t *testing.T) {
	d := NewWithText("ab\ncd\nef")
	c := d.Cursor()
	c.SetPosition(d.Length(), KeepAnchor)
	assert.Equal(t, nil, c.RemoveSelectedText())

	assert.Equal(t, "", d.PlainText())
	assert.Equal(t, 0, d.Length())
	assert.Equal(t, 1, len(d.Blocks()))
	assert.Equal(t, ElementID(0), d.RootFrame().ID())
}

func TestRemoveIsInverseOfInsert(t *testing.T) {
	d := NewWithText("abc\ndef")
	before := d.PlainText()
	blocksBefore := len(d.Blocks())

	c := d.CursorAt(2)
	lenBefore := d.Length()
	assert.Equal(t, nil, c.InsertText("xy\nz"))
	added := d.Length() - lenBefore
	assert.Equal(t, 4, added)
	assert.Equal(t, "abxy\nzc\ndef", d.PlainText())

	c.SetPosition(2, MoveAnchor)
	c.SetPosition(2+added, KeepAnchor)
	assert.Equal(t, nil, c.RemoveSelectedText())

	assert.Equal(t, before, d.PlainText())
	assert.Equal(t, blocksBefore, len(d.Blocks()))
}

func TestRemoveRangeSpanningNestedFrame(t *testing.T) {
	d := NewWithText("abcd")
	c := d.CursorAt(2)
	_, err := c.InsertFrame(format.FrameFormat{})
	assert.Equal(t, err, nil)
	assert.Equal(t, nil, c.InsertText("xy"))
	assert.Equal(t, "ab\nxy\ncd", d.PlainText())

	// the whole frame lies inside the range, so it goes away and the
	// outer blocks merge
	c.SetPosition(1, MoveAnchor)
	c.SetPosition(7, KeepAnchor)
	assert.Equal(t, nil, c.RemoveSelectedText())

	assert.Equal(t, "ad", d.PlainText())
	assert.Equal(t, 1, len(d.Blocks()))
}

func TestRemoveRangeCrossingFrameBoundary(t *testing.T) {
	d := NewWithText("abcd")
	c := d.CursorAt(2)
	_, err := c.InsertFrame(format.FrameFormat{})
	assert.Equal(t, err, nil)
	assert.Equal(t, nil, c.InsertText("xy"))

	// the range starts inside the frame; the crossed frame is removed
	// whole
	c.SetPosition(4, MoveAnchor)
	c.SetPosition(8, KeepAnchor)
	assert.Equal(t, nil, c.RemoveSelectedText())

	assert.Equal(t, "ab\n", d.PlainText())
	assert.Equal(t, 2, len(d.Blocks()))
}

func TestPlainTextBetween(t *testing.T) {
	d := NewWithText("ab\ncd")

	s, err := d.PlainTextBetween(1, 4)
	assert.Equal(t, err, nil)
	assert.Equal(t, "b\nc", s)

	s, err = d.PlainTextBetween(0, d.Length())
	assert.Equal(t, err, nil)
	assert.Equal(t, "ab\ncd", s)

	_, err = d.PlainTextBetween(3, 2)
	assert.Equal(t, true, errors.Is(err, ErrInvalidRange))
	_, err = d.PlainTextBetween(0, 99)
	assert.Equal(t, true, errors.Is(err, ErrInvalidRange))
}

func TestInvalidRanges(t *testing.T) {
	d := NewWithText("abc")

	err := d.removeRange(0, 99)
	assert.Equal(t, true, errors.Is(err, ErrInvalidRange))
	// a reversed range is rejected, not reordered
	err = d.removeRange(2, 1)
	assert.Equal(t, true, errors.Is(err, ErrInvalidRange))
	assert.Equal(t, "abc", d.PlainText())
	err = d.insertPlainText(-1, "x")
	assert.Equal(t, true, errors.Is(err, ErrInvalidRange))
	err = d.insertPlainText(99, "x")
	assert.Equal(t, true, errors.Is(err, ErrInvalidRange))

	_, err = d.Element(ElementID(12345))
	assert.Equal(t, true, errors.Is(err, ErrInvalidReference))
}

func TestCallbackRegistrationAndRemoval(t *testing.T) {
	d := NewWithText("abc")
	calls := 0
	id := d.RegisterCallbacks(func(TextChange) { calls++ }, nil)

	c := d.CursorAt(0)
	assert.Equal(t, nil, c.InsertText("x"))
	assert.Equal(t, 1, calls)

	assert.Equal(t, true, d.UnregisterCallbacks(id))
	assert.Equal(t, nil, c.InsertText("y"))
	assert.Equal(t, 1, calls)

	// removing twice reports false
	assert.Equal(t, false, d.UnregisterCallbacks(id))
	assert.Equal(t, false, d.UnregisterCallbacks(CallbackID(999)))
}

func TestPerKindCallbacks(t *testing.T) {
	d := NewWithText("abc")
	texts := 0
	elements := 0
	tid := d.AddTextChangeCallback(func(TextChange) { texts++ })
	eid := d.AddElementChangeCallback(func(ElementChange) { elements++ })
	assert.Equal(t, true, tid != eid)

	c := d.CursorAt(0)
	assert.Equal(t, nil, c.InsertText("x"))
	assert.Equal(t, 1, texts)
	assert.Equal(t, 1, elements)

	assert.Equal(t, true, d.RemoveTextChangeCallback(tid))
	assert.Equal(t, nil, c.InsertText("y"))
	assert.Equal(t, 1, texts)
	assert.Equal(t, 2, elements)

	assert.Equal(t, true, d.RemoveElementChangeCallback(eid))
	assert.Equal(t, nil, c.InsertText("z"))
	assert.Equal(t, 2, elements)
}

func TestSetFormatByIdentifier(t *testing.T) {
	d := NewWithText("abc")
	changes := 0
	d.AddElementChangeCallback(func(c ElementChange) {
		assert.Equal(t, FormatChanged, c.Reason)
		changes++
	})

	b := d.FirstBlock()
	center := format.AlignHCenter
	assert.Equal(t, nil, d.SetFormat(b.ID(), format.BlockFormat{Alignment: &center}))
	assert.Equal(t, 1, changes)
	assert.Equal(t, format.AlignHCenter, *b.BlockFormat().Alignment)

	// applying an identical format is silent
	assert.Equal(t, nil, d.SetFormat(b.ID(), format.BlockFormat{Alignment: &center}))
	assert.Equal(t, 1, changes)

	// the payload variant must match the element
	err := d.SetFormat(b.ID(), format.TextFormat{})
	assert.Equal(t, true, errors.Is(err, ErrTypeMismatch))
	assert.Equal(t, 1, changes)

	err = d.SetFormat(ElementID(404), format.BlockFormat{})
	assert.Equal(t, true, errors.Is(err, ErrInvalidReference))
}
