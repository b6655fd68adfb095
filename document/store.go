package document

import (
	"fmt"
	"slices"

	"github.com/bethropolis/quill/internal/logger"
)

// InsertMode controls where a newly created element lands relative to a
// reference element.
type InsertMode int

const (
	// AsChild appends the new element to the reference's children.
	AsChild InsertMode = iota
	// After inserts the new element as the next sibling of the reference.
	After
	// Before inserts the new element as the previous sibling of the
	// reference.
	Before
)

// store is the arena owning every element of one document. Elements are
// addressed by id; the tree shape lives in the parents/children maps,
// never in the elements themselves, so there are no ownership cycles.
type store struct {
	nextID   ElementID
	rootID   ElementID
	elements map[ElementID]Element
	parents  map[ElementID]ElementID
	children map[ElementID][]ElementID
	idx      *offsetIndex
}

func newStore() *store {
	s := &store{
		elements: make(map[ElementID]Element),
		parents:  make(map[ElementID]ElementID),
		children: make(map[ElementID][]ElementID),
	}
	s.idx = newOffsetIndex(s)
	return s
}

// createRootFrame installs the document's root frame. Must be called
// exactly once, before any other insertion.
func (s *store) createRootFrame() *Frame {
	root := &Frame{meta: meta{store: s}}
	s.register(root)
	s.rootID = root.ID()
	return root
}

// register assigns the next id and adds the element to the arena. The
// element is not yet linked to a parent.
func (s *store) register(e Element) {
	id := s.nextID
	s.nextID++
	e.setID(id)
	s.elements[id] = e
}

func (s *store) get(id ElementID) (Element, error) {
	e, ok := s.elements[id]
	if !ok {
		return nil, fmt.Errorf("element %d: %w", id, ErrInvalidReference)
	}
	return e, nil
}

func (s *store) rootFrame() *Frame {
	return s.elements[s.rootID].(*Frame)
}

func (s *store) parentID(id ElementID) (ElementID, bool) {
	p, ok := s.parents[id]
	return p, ok
}

func (s *store) parentOf(id ElementID) (Element, bool) {
	p, ok := s.parents[id]
	if !ok {
		return nil, false
	}
	return s.elements[p], true
}

func (s *store) childIDs(id ElementID) []ElementID {
	return s.children[id]
}

func (s *store) childrenOf(id ElementID) []Element {
	ids := s.children[id]
	out := make([]Element, 0, len(ids))
	for _, cid := range ids {
		out = append(out, s.elements[cid])
	}
	return out
}

// insertNewFrame creates an empty frame relative to ref.
func (s *store) insertNewFrame(ref ElementID, mode InsertMode) (*Frame, error) {
	f := &Frame{meta: meta{store: s}}
	if err := s.insert(f, ref, mode); err != nil {
		return nil, err
	}
	return f, nil
}

// insertNewBlock creates an empty block relative to ref.
func (s *store) insertNewBlock(ref ElementID, mode InsertMode) (*Block, error) {
	b := &Block{meta: meta{store: s}}
	if err := s.insert(b, ref, mode); err != nil {
		return nil, err
	}
	return b, nil
}

// insertNewText creates an empty text run relative to ref.
func (s *store) insertNewText(ref ElementID, mode InsertMode) (*Text, error) {
	t := &Text{meta: meta{store: s}}
	if err := s.insert(t, ref, mode); err != nil {
		return nil, err
	}
	return t, nil
}

// insertNewImage creates an image element relative to ref.
func (s *store) insertNewImage(ref ElementID, mode InsertMode) (*Image, error) {
	img := &Image{meta: meta{store: s}}
	if err := s.insert(img, ref, mode); err != nil {
		return nil, err
	}
	return img, nil
}

// insert validates the nesting rule, assigns an id, and splices the
// element into the target parent's child list.
func (s *store) insert(e Element, ref ElementID, mode InsertMode) error {
	if _, err := s.get(ref); err != nil {
		return err
	}

	var parentEID ElementID
	var at int
	switch mode {
	case AsChild:
		parentEID = ref
		at = len(s.children[ref])
	case After, Before:
		p, ok := s.parentID(ref)
		if !ok {
			return fmt.Errorf("root frame has no siblings: %w", ErrStructuralViolation)
		}
		parentEID = p
		at = slices.Index(s.children[p], ref)
		if mode == After {
			at++
		}
	default:
		return fmt.Errorf("unknown insert mode %d: %w", mode, ErrStructuralViolation)
	}

	parentEl := s.elements[parentEID]
	if err := e.checkParent(parentEl); err != nil {
		return err
	}

	s.register(e)
	s.children[parentEID] = slices.Insert(s.children[parentEID], at, e.ID())
	s.parents[e.ID()] = parentEID
	s.idx.invalidate(parentEID)
	logger.Debugf("store: created %s %d under %d", e.Kind(), e.ID(), parentEID)
	return nil
}

// destroy removes a single childless element. It fails if the id is
// unknown, if the element still has children (callers must empty or
// move them first), or if it is the root frame.
func (s *store) destroy(id ElementID) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	if id == s.rootID {
		return fmt.Errorf("root frame cannot be destroyed: %w", ErrInvalidReference)
	}
	if len(s.children[id]) > 0 {
		return fmt.Errorf("element %d still has children: %w", id, ErrInvalidReference)
	}
	s.removeSubtrees([]ElementID{id})
	return nil
}

// removeSubtrees detaches and destroys the given elements together with
// their subtrees. Unknown ids are skipped; ids never come back.
func (s *store) removeSubtrees(ids []ElementID) {
	for _, id := range ids {
		if _, ok := s.elements[id]; !ok {
			continue
		}
		if p, ok := s.parents[id]; ok {
			s.children[p] = deleteID(s.children[p], id)
			s.idx.invalidate(p)
		}
		s.destroySubtree(id)
	}
}

func (s *store) destroySubtree(id ElementID) {
	for _, cid := range s.children[id] {
		s.destroySubtree(cid)
	}
	delete(s.elements, id)
	delete(s.children, id)
	delete(s.parents, id)
	s.idx.forget(id)
}

// moveToParent re-parents an element, appending it to the new parent's
// children.
func (s *store) moveToParent(id, newParent ElementID) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	parentEl, err := s.get(newParent)
	if err != nil {
		return err
	}
	if err := e.checkParent(parentEl); err != nil {
		return err
	}
	if old, ok := s.parents[id]; ok {
		s.children[old] = deleteID(s.children[old], id)
		s.idx.invalidate(old)
	}
	s.children[newParent] = append(s.children[newParent], id)
	s.parents[id] = newParent
	s.idx.invalidate(newParent)
	return nil
}

func deleteID(ids []ElementID, id ElementID) []ElementID {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}

// descendants returns the subtree below id in document order, excluding
// id itself.
func (s *store) descendants(id ElementID) []Element {
	var out []Element
	s.appendDescendants(id, &out)
	return out
}

func (s *store) appendDescendants(id ElementID, out *[]Element) {
	for _, cid := range s.children[id] {
		*out = append(*out, s.elements[cid])
		s.appendDescendants(cid, out)
	}
}

// blockList returns every block of the document in document order.
func (s *store) blockList() []*Block {
	var out []*Block
	for _, e := range s.descendants(s.rootID) {
		if b, ok := e.(*Block); ok {
			out = append(out, b)
		}
	}
	return out
}

func (s *store) firstBlock() *Block {
	for _, e := range s.descendants(s.rootID) {
		if b, ok := e.(*Block); ok {
			return b
		}
	}
	return nil
}

func (s *store) lastBlock() *Block {
	var last *Block
	for _, e := range s.descendants(s.rootID) {
		if b, ok := e.(*Block); ok {
			last = b
		}
	}
	return last
}

// findBlock resolves the block owning a linear position, end-biased: a
// position exactly at a block's end (on its trailing separator edge)
// resolves to that block.
func (s *store) findBlock(pos int) (*Block, bool) {
	return s.descendToBlock(s.rootID, pos)
}

func (s *store) descendToBlock(frameID ElementID, pos int) (*Block, bool) {
	for _, cid := range s.children[frameID] {
		span := s.idx.length(cid)
		if pos <= span {
			switch child := s.elements[cid].(type) {
			case *Block:
				return child, true
			case *Frame:
				return s.descendToBlock(cid, pos)
			}
		}
		pos -= span + 1
		if pos < 0 {
			return nil, false
		}
	}
	return nil, false
}

// commonAncestor returns the deepest element containing both a and b
// (possibly a or b itself).
func (s *store) commonAncestor(a, b ElementID) ElementID {
	seen := make(map[ElementID]struct{})
	for cur := a; ; {
		seen[cur] = struct{}{}
		p, ok := s.parents[cur]
		if !ok {
			break
		}
		cur = p
	}
	for cur := b; ; {
		if _, ok := seen[cur]; ok {
			return cur
		}
		p, ok := s.parents[cur]
		if !ok {
			break
		}
		cur = p
	}
	return s.rootID
}

// childOfAncestor walks up from id and returns the ancestor (or id
// itself) that is a direct child of the given ancestor.
func (s *store) childOfAncestor(id, ancestor ElementID) (ElementID, bool) {
	for cur := id; ; {
		p, ok := s.parents[cur]
		if !ok {
			return 0, false
		}
		if p == ancestor {
			return cur, true
		}
		cur = p
	}
}

// fillEmptyContainers restores the structural skeleton after removals:
// every childless frame gains an empty block, every childless block an
// empty text run.
func (s *store) fillEmptyContainers() {
	var frames, blocks []ElementID
	for id, e := range s.elements {
		if len(s.children[id]) > 0 {
			continue
		}
		switch e.Kind() {
		case KindFrame:
			frames = append(frames, id)
		case KindBlock:
			blocks = append(blocks, id)
		}
	}
	slices.Sort(frames)
	slices.Sort(blocks)
	for _, id := range frames {
		b, err := s.insertNewBlock(id, AsChild)
		if err != nil {
			continue
		}
		blocks = append(blocks, b.ID())
	}
	for _, id := range blocks {
		s.insertNewText(id, AsChild)
	}
}
