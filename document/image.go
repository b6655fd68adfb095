package document

import (
	"fmt"

	"github.com/bethropolis/quill/format"
)

// objectReplacement is the placeholder rune an inline object contributes
// to the plain-text rendering of its block.
const objectReplacement = '￼'

// Image is an inline object occupying exactly one position in the
// linear offset space.
type Image struct {
	meta
	format format.ImageFormat
}

// Kind implements Element.
func (im *Image) Kind() Kind { return KindImage }

// Length is always 1: an image is a single unit in the offset space.
func (im *Image) Length() int { return 1 }

// PlainText returns the object replacement character.
func (im *Image) PlainText() string { return string(objectReplacement) }

// Format implements Element.
func (im *Image) Format() format.Format { return im.format }

// ImageFormat returns the image's format, including its source name and
// display size.
func (im *Image) ImageFormat() format.ImageFormat { return im.format }

// PositionInBlock returns the image's offset within its parent block.
func (im *Image) PositionInBlock() int {
	p, ok := im.Parent()
	if !ok {
		return 0
	}
	b, ok := p.(*Block)
	if !ok {
		return 0
	}
	return b.offsetOfChild(im.id)
}

func (im *Image) checkParent(parent Element) error {
	if parent.Kind() != KindBlock {
		return fmt.Errorf("image under %s: %w", parent.Kind(), ErrStructuralViolation)
	}
	return nil
}

func (im *Image) applyFormat(f format.ImageFormat) bool {
	if im.format.Equal(f) {
		return false
	}
	im.format = f
	return true
}

func (im *Image) mergeFormat(f format.ImageFormat) bool {
	return im.format.MergeWith(f)
}
