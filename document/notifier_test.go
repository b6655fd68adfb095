package document

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestNotifierCoalescesTextChanges(t *testing.T) {
	d := New()
	n := d.notifier
	var got []TextChange
	n.register(func(c TextChange) { got = append(got, c) }, nil)

	n.begin()
	n.noteText(4, 2, 0)
	n.noteText(4, 0, 7)
	n.end()

	assert.Equal(t, 1, len(got))
	assert.Equal(t, TextChange{Position: 4, Removed: 2, Added: 7}, got[0])
}

func TestNotifierMergesDisjointEdits(t *testing.T) {
	d := New()
	n := d.notifier
	var got []TextChange
	n.register(func(c TextChange) { got = append(got, c) }, nil)

	n.begin()
	n.noteText(10, 0, 3)
	n.noteText(2, 1, 0)
	n.end()

	assert.Equal(t, 1, len(got))
	// the merged change covers both edit sites
	assert.Equal(t, 2, got[0].Position)
}

func TestNotifierDedupesElementChanges(t *testing.T) {
	d := New()
	n := d.notifier
	root := d.RootFrame()
	block := d.FirstBlock()

	var got []ElementChange
	n.register(nil, func(c ElementChange) { got = append(got, c) })

	n.begin()
	n.noteElement(root, ChildrenChanged)
	n.noteElement(root, ChildrenChanged)
	n.noteElement(root, FormatChanged)
	n.noteElement(block, ChildrenChanged)
	n.end()

	assert.Equal(t, 3, len(got))
	assert.Equal(t, ChildrenChanged, got[0].Reason)
	assert.Equal(t, root.ID(), got[0].Element.ID())
	assert.Equal(t, FormatChanged, got[1].Reason)
	assert.Equal(t, block.ID(), got[2].Element.ID())
}

func TestNotifierNestedOperationsDispatchOnce(t *testing.T) {
	d := New()
	n := d.notifier
	calls := 0
	n.register(func(TextChange) { calls++ }, nil)

	n.begin()
	n.noteText(0, 0, 1)
	n.begin()
	n.noteText(0, 0, 1)
	n.end()
	assert.Equal(t, 0, calls) // inner end does not dispatch
	n.end()
	assert.Equal(t, 1, calls)
}

func TestNotifierDispatchesInRegistrationOrder(t *testing.T) {
	d := New()
	n := d.notifier
	var order []int
	n.register(func(TextChange) { order = append(order, 1) }, nil)
	n.register(func(TextChange) { order = append(order, 2) }, nil)
	n.register(func(TextChange) { order = append(order, 3) }, nil)

	n.begin()
	n.noteText(0, 0, 1)
	n.end()

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestNotifierSilentWithoutChanges(t *testing.T) {
	d := New()
	n := d.notifier
	calls := 0
	n.register(func(TextChange) { calls++ }, func(ElementChange) { calls++ })

	n.begin()
	n.noteText(3, 0, 0) // an empty edit is not a change
	n.end()

	assert.Equal(t, 0, calls)
}

func TestObserverCanMutateDuringDispatch(t *testing.T) {
	d := NewWithText("abc")
	fired := false
	var id CallbackID
	id = d.RegisterCallbacks(func(c TextChange) {
		if fired {
			return
		}
		fired = true
		d.UnregisterCallbacks(id)
		// a new operation from inside a callback must not deadlock or
		// re-dispatch the old state
		c2 := d.CursorAt(d.Length())
		_ = c2.InsertText("!")
	}, nil)

	c := d.CursorAt(0)
	assert.Equal(t, nil, c.InsertText("x"))
	assert.Equal(t, "xabc!", d.PlainText())
	assert.Equal(t, true, fired)
}
