package document

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestRootFrameIsElementZero(t *testing.T) {
	d := New()
	root := d.RootFrame()
	assert.Equal(t, ElementID(0), root.ID())

	_, hasParent := root.Parent()
	assert.Equal(t, false, hasParent)

	// the skeleton holds one block with one empty run
	assert.Equal(t, 1, len(d.Blocks()))
	assert.Equal(t, 0, d.Length())
	assert.Equal(t, "", d.PlainText())
}

func TestIdentifiersNeverReused(t *testing.T) {
	d := New()
	s := d.store
	b := s.firstBlock()

	run, err := s.insertNewText(b.ID(), AsChild)
	assert.Equal(t, err, nil)
	id := run.ID()

	s.removeSubtrees([]ElementID{id})
	_, err = s.get(id)
	assert.Equal(t, true, errors.Is(err, ErrInvalidReference))

	// a fresh element gets a fresh identifier
	run2, err := s.insertNewText(b.ID(), AsChild)
	assert.Equal(t, err, nil)
	if run2.ID() <= id {
		t.Fatalf("identifier %d reused or reordered after %d", run2.ID(), id)
	}
}

func TestNestingRules(t *testing.T) {
	d := New()
	s := d.store
	b := s.firstBlock()

	_, err := s.insertNewBlock(b.ID(), AsChild)
	assert.Equal(t, true, errors.Is(err, ErrStructuralViolation))

	_, err = s.insertNewText(s.rootID, AsChild)
	assert.Equal(t, true, errors.Is(err, ErrStructuralViolation))

	_, err = s.insertNewImage(s.rootID, AsChild)
	assert.Equal(t, true, errors.Is(err, ErrStructuralViolation))

	_, err = s.insertNewFrame(b.ID(), AsChild)
	assert.Equal(t, true, errors.Is(err, ErrStructuralViolation))

	// frames nest inside frames
	_, err = s.insertNewFrame(s.rootID, AsChild)
	assert.Equal(t, err, nil)
}

func TestDestroyRules(t *testing.T) {
	d := NewWithText("abc")
	s := d.store

	err := s.destroy(s.rootID)
	assert.NotEqual(t, err, nil)

	b := s.firstBlock()
	err = s.destroy(b.ID())
	assert.NotEqual(t, err, nil) // still has a run

	err = s.destroy(ElementID(9999))
	assert.Equal(t, true, errors.Is(err, ErrInvalidReference))
}

func TestInsertModes(t *testing.T) {
	d := New()
	s := d.store
	first := s.firstBlock()

	after, err := s.insertNewBlock(first.ID(), After)
	assert.Equal(t, err, nil)
	before, err := s.insertNewBlock(first.ID(), Before)
	assert.Equal(t, err, nil)

	kids := s.childIDs(s.rootID)
	assert.Equal(t, 3, len(kids))
	assert.Equal(t, before.ID(), kids[0])
	assert.Equal(t, first.ID(), kids[1])
	assert.Equal(t, after.ID(), kids[2])

	// the root has no siblings
	_, err = s.insertNewBlock(s.rootID, After)
	assert.Equal(t, true, errors.Is(err, ErrStructuralViolation))
}

func TestBlockNavigation(t *testing.T) {
	d := NewWithText("ab\ncd\nef")
	blocks := d.Blocks()
	assert.Equal(t, 3, len(blocks))
	assert.Equal(t, 0, blocks[0].Number())
	assert.Equal(t, 2, blocks[2].Number())
	assert.Equal(t, d.FirstBlock().ID(), blocks[0].ID())
	assert.Equal(t, d.LastBlock().ID(), blocks[2].ID())

	b, ok := d.BlockAt(4)
	assert.Equal(t, true, ok)
	assert.Equal(t, blocks[1].ID(), b.ID())

	// a position at the block's end, on the separator edge, still
	// resolves to that block
	b, ok = d.BlockAt(5)
	assert.Equal(t, true, ok)
	assert.Equal(t, blocks[1].ID(), b.ID())
}

func TestFillEmptyContainers(t *testing.T) {
	d := New()
	s := d.store

	fr, err := s.insertNewFrame(s.rootID, AsChild)
	assert.Equal(t, err, nil)
	s.fillEmptyContainers()

	kids := s.childIDs(fr.ID())
	assert.Equal(t, 1, len(kids))
	blk := s.elements[kids[0]]
	assert.Equal(t, KindBlock, blk.Kind())
	assert.Equal(t, 1, len(s.childIDs(blk.ID())))
}
