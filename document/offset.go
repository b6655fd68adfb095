package document

// offsetIndex maintains the mapping between the linear offset space and
// the tree. Subtree spans are memoized per element and dropped along
// the ancestor chain on every mutation, so an update costs tree depth
// and a query recomputes only the spans on the path it descends, never
// the whole document.
type offsetIndex struct {
	store   *store
	lengths map[ElementID]int
}

func newOffsetIndex(s *store) *offsetIndex {
	return &offsetIndex{store: s, lengths: make(map[ElementID]int)}
}

// invalidate drops the cached spans of id and all of its ancestors.
// Called after any content or structure change below id.
func (x *offsetIndex) invalidate(id ElementID) {
	for {
		delete(x.lengths, id)
		p, ok := x.store.parents[id]
		if !ok {
			return
		}
		id = p
	}
}

// forget drops a destroyed element's cache entry.
func (x *offsetIndex) forget(id ElementID) {
	delete(x.lengths, id)
}

// length returns the subtree span of id in offset units: rune count for
// text runs, 1 for images, the plain sum for blocks, and for frames the
// sum over children plus one separator unit between each pair.
func (x *offsetIndex) length(id ElementID) int {
	if v, ok := x.lengths[id]; ok {
		return v
	}
	var n int
	switch e := x.store.elements[id].(type) {
	case *Text:
		n = len(e.text)
	case *Image:
		n = 1
	case *Block:
		for _, cid := range x.store.children[id] {
			n += x.length(cid)
		}
	case *Frame:
		kids := x.store.children[id]
		for _, cid := range kids {
			n += x.length(cid) + 1
		}
		if len(kids) > 0 {
			n--
		}
	}
	x.lengths[id] = n
	return n
}

// documentLength is the total span of the document.
func (x *offsetIndex) documentLength() int {
	return x.length(x.store.rootID)
}

// startOf returns the element's first position in the linear space.
func (x *offsetIndex) startOf(id ElementID) int {
	p, ok := x.store.parents[id]
	if !ok {
		return 0
	}
	off := x.startOf(p)
	sep := 0
	if x.store.elements[p].Kind() == KindFrame {
		sep = 1
	}
	for _, cid := range x.store.children[p] {
		if cid == id {
			break
		}
		off += x.length(cid) + sep
	}
	return off
}

// locate resolves a global offset to the leaf element owning it plus
// the local offset inside that leaf. The default bias resolves an
// offset exactly at a boundary to the start of the following element;
// endBiased resolves it to the end of the preceding one instead, so an
// insertion at a run boundary extends the preceding run's format. An
// offset on a block separator resolves to the start of the following
// block's first leaf.
func (x *offsetIndex) locate(pos int, endBiased bool) (Element, int, bool) {
	return x.descend(x.store.rootID, pos, endBiased)
}

func (x *offsetIndex) descend(id ElementID, pos int, endBiased bool) (Element, int, bool) {
	e := x.store.elements[id]
	switch e.Kind() {
	case KindText, KindImage:
		return e, pos, true
	}
	kids := x.store.children[id]
	sep := 0
	if e.Kind() == KindFrame {
		sep = 1
	}
	for i, cid := range kids {
		span := x.length(cid)
		last := i == len(kids)-1
		if pos < span || (pos == span && (endBiased || last)) {
			return x.descend(cid, pos, endBiased)
		}
		pos -= span + sep
		if pos < 0 {
			// landed on a separator unit
			return x.descend(kids[i+1], 0, endBiased)
		}
	}
	return nil, 0, false
}
