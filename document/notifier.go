package document

import "github.com/bethropolis/quill/internal/logger"

// ChangeReason classifies why an element was reported as changed.
type ChangeReason int

const (
	// ContentChanged marks edits to a text run's characters.
	ContentChanged ChangeReason = iota
	// FormatChanged marks a change to an element's format payload.
	FormatChanged
	// ChildrenChanged marks structural changes to a container's child
	// list.
	ChildrenChanged
)

// String returns a human-readable name for the reason.
func (r ChangeReason) String() string {
	switch r {
	case ContentChanged:
		return "content"
	case FormatChanged:
		return "format"
	case ChildrenChanged:
		return "children"
	}
	return "unknown"
}

// CallbackID identifies a registered observer pair.
type CallbackID uint64

// TextChange describes one edit to the linear offset space: at
// Position, Removed units were deleted and Added units inserted. A
// logical operation produces at most one TextChange, even when it
// touches several elements.
type TextChange struct {
	Position int
	Removed  int
	Added    int
}

// ElementChange reports that a single element changed for one reason.
type ElementChange struct {
	Element Element
	Reason  ChangeReason
}

type observer struct {
	textChanged    func(TextChange)
	elementChanged func(ElementChange)
}

// notifier collects the changes of one logical operation and dispatches
// them synchronously when the outermost operation finishes. Element
// changes are deduplicated per (element, reason) pair, keeping the
// order of first report.
type notifier struct {
	nextID    CallbackID
	order     []CallbackID
	observers map[CallbackID]observer

	depth    int
	text     *TextChange
	elements []ElementChange
}

func newNotifier() *notifier {
	return &notifier{observers: make(map[CallbackID]observer)}
}

// register adds an observer pair; either callback may be nil.
func (n *notifier) register(text func(TextChange), element func(ElementChange)) CallbackID {
	id := n.nextID
	n.nextID++
	n.order = append(n.order, id)
	n.observers[id] = observer{textChanged: text, elementChanged: element}
	return id
}

// unregister removes an observer, reporting whether it was known.
func (n *notifier) unregister(id CallbackID) bool {
	if _, ok := n.observers[id]; !ok {
		return false
	}
	delete(n.observers, id)
	n.order = deleteCallbackID(n.order, id)
	return true
}

func deleteCallbackID(ids []CallbackID, id CallbackID) []CallbackID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// begin opens a logical operation. Operations nest; only the outermost
// end dispatches.
func (n *notifier) begin() { n.depth++ }

// end closes a logical operation, dispatching the collected changes
// when the outermost one finishes.
func (n *notifier) end() {
	n.depth--
	if n.depth <= 0 {
		n.depth = 0
		n.flush()
	}
}

// noteText records an edit, coalescing it with any edit already
// recorded for this operation.
func (n *notifier) noteText(pos, removed, added int) {
	if removed == 0 && added == 0 {
		return
	}
	if n.text == nil {
		n.text = &TextChange{Position: pos, Removed: removed, Added: added}
		return
	}
	t := n.text
	if pos == t.Position {
		t.Removed += removed
		t.Added += added
		return
	}
	lo := min(t.Position, pos)
	oldHi := max(t.Position+t.Removed, pos+removed)
	newHi := max(t.Position+t.Added, pos+added)
	t.Position = lo
	t.Removed = oldHi - lo
	t.Added = newHi - lo
}

// noteElement records an element change once per (element, reason).
func (n *notifier) noteElement(e Element, reason ChangeReason) {
	for _, c := range n.elements {
		if c.Element.ID() == e.ID() && c.Reason == reason {
			return
		}
	}
	n.elements = append(n.elements, ElementChange{Element: e, Reason: reason})
}

// flush dispatches the collected changes and resets the collection
// state first, so observers may start new operations on the document.
func (n *notifier) flush() {
	text := n.text
	elements := n.elements
	n.text = nil
	n.elements = nil
	if text == nil && len(elements) == 0 {
		return
	}

	order := make([]CallbackID, len(n.order))
	copy(order, n.order)

	if text != nil {
		logger.Debugf("document: text change at %d (-%d +%d)", text.Position, text.Removed, text.Added)
		for _, id := range order {
			if ob, ok := n.observers[id]; ok && ob.textChanged != nil {
				ob.textChanged(*text)
			}
		}
	}
	for _, c := range elements {
		for _, id := range order {
			if ob, ok := n.observers[id]; ok && ob.elementChanged != nil {
				ob.elementChanged(c)
			}
		}
	}
}
