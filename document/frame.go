package document

import (
	"fmt"
	"strings"

	"github.com/bethropolis/quill/format"
)

// Frame is a container grouping blocks and nested frames. The document
// root is a frame; every other frame sits inside a frame.
type Frame struct {
	meta
	format format.FrameFormat
}

// Kind implements Element.
func (f *Frame) Kind() Kind { return KindFrame }

// Length returns the frame's span in the linear offset space, including
// one separator unit between each pair of children.
func (f *Frame) Length() int { return f.store.idx.length(f.id) }

// Children returns the frame's blocks and nested frames in order.
func (f *Frame) Children() []Element { return f.store.childrenOf(f.id) }

// PlainText joins the children's plain text with newlines, mirroring
// the separator units of the offset space.
func (f *Frame) PlainText() string {
	var sb strings.Builder
	for i, c := range f.Children() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(c.PlainText())
	}
	return sb.String()
}

// Format implements Element.
func (f *Frame) Format() format.Format { return f.format }

// FrameFormat returns the frame's format.
func (f *Frame) FrameFormat() format.FrameFormat { return f.format }

func (f *Frame) checkParent(parent Element) error {
	if parent.Kind() != KindFrame {
		return fmt.Errorf("frame under %s: %w", parent.Kind(), ErrStructuralViolation)
	}
	return nil
}

func (f *Frame) applyFormat(ff format.FrameFormat) bool {
	if f.format.Equal(ff) {
		return false
	}
	f.format = ff
	return true
}

func (f *Frame) mergeFormat(ff format.FrameFormat) bool {
	return f.format.MergeWith(ff)
}
