package format

import "slices"

// Kind identifies which element variant a format payload belongs to.
type Kind int

const (
	KindFrame Kind = iota
	KindBlock
	KindText
	KindImage
)

// String returns a human-readable name for the format kind.
func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindBlock:
		return "block"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Format is the closed union over the four payload types. The document
// core uses FormatKind to reject payloads applied to the wrong element
// variant.
type Format interface {
	FormatKind() Kind
}

// eqField compares two optional fields for equality.
func eqField[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// mergeField overlays src onto dst if src is set, reporting whether dst
// changed.
func mergeField[T comparable](dst **T, src *T) bool {
	if src == nil {
		return false
	}
	if *dst != nil && **dst == *src {
		return false
	}
	v := *src
	*dst = &v
	return true
}

// FramePosition describes how a frame participates in surrounding flow.
type FramePosition int

const (
	InFlow FramePosition = iota
	FloatLeft
	FloatRight
)

// FrameFormat describes frame-specific properties.
type FrameFormat struct {
	Height       *int
	Width        *int
	TopMargin    *int
	BottomMargin *int
	LeftMargin   *int
	RightMargin  *int
	Padding      *int
	Border       *int
	Position     *FramePosition
}

// FormatKind implements Format.
func (FrameFormat) FormatKind() Kind { return KindFrame }

// Equal reports whether both formats set the same attributes to the
// same values.
func (f FrameFormat) Equal(other FrameFormat) bool {
	return eqField(f.Height, other.Height) &&
		eqField(f.Width, other.Width) &&
		eqField(f.TopMargin, other.TopMargin) &&
		eqField(f.BottomMargin, other.BottomMargin) &&
		eqField(f.LeftMargin, other.LeftMargin) &&
		eqField(f.RightMargin, other.RightMargin) &&
		eqField(f.Padding, other.Padding) &&
		eqField(f.Border, other.Border) &&
		eqField(f.Position, other.Position)
}

// MergeWith overlays the set fields of other onto f, reporting whether
// anything changed.
func (f *FrameFormat) MergeWith(other FrameFormat) bool {
	changed := mergeField(&f.Height, other.Height)
	changed = mergeField(&f.Width, other.Width) || changed
	changed = mergeField(&f.TopMargin, other.TopMargin) || changed
	changed = mergeField(&f.BottomMargin, other.BottomMargin) || changed
	changed = mergeField(&f.LeftMargin, other.LeftMargin) || changed
	changed = mergeField(&f.RightMargin, other.RightMargin) || changed
	changed = mergeField(&f.Padding, other.Padding) || changed
	changed = mergeField(&f.Border, other.Border) || changed
	changed = mergeField(&f.Position, other.Position) || changed
	return changed
}

// Alignment is the horizontal alignment of a block.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignHCenter
	AlignJustify
)

// MarkerType marks a block as a (possibly checked) list item.
type MarkerType int

const (
	NoMarker MarkerType = iota
	MarkerUnchecked
	MarkerChecked
)

// BlockFormat describes block-specific properties, i.e. paragraph
// formatting.
type BlockFormat struct {
	Alignment    *Alignment
	TopMargin    *int
	BottomMargin *int
	LeftMargin   *int
	RightMargin  *int
	HeadingLevel *int
	Indent       *int
	TextIndent   *int
	Marker       *MarkerType
}

// FormatKind implements Format.
func (BlockFormat) FormatKind() Kind { return KindBlock }

// Equal reports whether both formats set the same attributes to the
// same values.
func (f BlockFormat) Equal(other BlockFormat) bool {
	return eqField(f.Alignment, other.Alignment) &&
		eqField(f.TopMargin, other.TopMargin) &&
		eqField(f.BottomMargin, other.BottomMargin) &&
		eqField(f.LeftMargin, other.LeftMargin) &&
		eqField(f.RightMargin, other.RightMargin) &&
		eqField(f.HeadingLevel, other.HeadingLevel) &&
		eqField(f.Indent, other.Indent) &&
		eqField(f.TextIndent, other.TextIndent) &&
		eqField(f.Marker, other.Marker)
}

// MergeWith overlays the set fields of other onto f, reporting whether
// anything changed.
func (f *BlockFormat) MergeWith(other BlockFormat) bool {
	changed := mergeField(&f.Alignment, other.Alignment)
	changed = mergeField(&f.TopMargin, other.TopMargin) || changed
	changed = mergeField(&f.BottomMargin, other.BottomMargin) || changed
	changed = mergeField(&f.LeftMargin, other.LeftMargin) || changed
	changed = mergeField(&f.RightMargin, other.RightMargin) || changed
	changed = mergeField(&f.HeadingLevel, other.HeadingLevel) || changed
	changed = mergeField(&f.Indent, other.Indent) || changed
	changed = mergeField(&f.TextIndent, other.TextIndent) || changed
	changed = mergeField(&f.Marker, other.Marker) || changed
	return changed
}

// UnderlineStyle is the underline decoration of a text run.
type UnderlineStyle int

const (
	NoUnderline UnderlineStyle = iota
	SingleUnderline
	DashUnderline
	DotUnderline
	WaveUnderline
	SpellCheckUnderline
)

// VerticalAlignment positions a run relative to the baseline.
type VerticalAlignment int

const (
	AlignNormal VerticalAlignment = iota
	AlignSuperScript
	AlignSubScript
)

// TextFormat describes the character formatting of a text run.
type TextFormat struct {
	Font

	AnchorHref        *string
	ToolTip           *string
	Underline         *UnderlineStyle
	VerticalAlignment *VerticalAlignment
}

// FormatKind implements Format.
func (TextFormat) FormatKind() Kind { return KindText }

// Equal reports whether both formats set the same attributes to the
// same values.
func (f TextFormat) Equal(other TextFormat) bool {
	return f.Font.Equal(other.Font) &&
		eqField(f.AnchorHref, other.AnchorHref) &&
		eqField(f.ToolTip, other.ToolTip) &&
		eqField(f.Underline, other.Underline) &&
		eqField(f.VerticalAlignment, other.VerticalAlignment)
}

// MergeWith overlays the set fields of other onto f, reporting whether
// anything changed.
func (f *TextFormat) MergeWith(other TextFormat) bool {
	changed := f.Font.MergeWith(other.Font)
	changed = mergeField(&f.AnchorHref, other.AnchorHref) || changed
	changed = mergeField(&f.ToolTip, other.ToolTip) || changed
	changed = mergeField(&f.Underline, other.Underline) || changed
	changed = mergeField(&f.VerticalAlignment, other.VerticalAlignment) || changed
	return changed
}

// ImageFormat describes an inline image. It carries a full TextFormat
// so an image can align with its surrounding run.
type ImageFormat struct {
	TextFormat

	Height  *int
	Width   *int
	Quality *int
	Name    *string
}

// FormatKind implements Format.
func (ImageFormat) FormatKind() Kind { return KindImage }

// Equal reports whether both formats set the same attributes to the
// same values.
func (f ImageFormat) Equal(other ImageFormat) bool {
	return f.TextFormat.Equal(other.TextFormat) &&
		eqField(f.Height, other.Height) &&
		eqField(f.Width, other.Width) &&
		eqField(f.Quality, other.Quality) &&
		eqField(f.Name, other.Name)
}

// MergeWith overlays the set fields of other onto f, reporting whether
// anything changed.
func (f *ImageFormat) MergeWith(other ImageFormat) bool {
	changed := f.TextFormat.MergeWith(other.TextFormat)
	changed = mergeField(&f.Height, other.Height) || changed
	changed = mergeField(&f.Width, other.Width) || changed
	changed = mergeField(&f.Quality, other.Quality) || changed
	changed = mergeField(&f.Name, other.Name) || changed
	return changed
}

// equalFamilies compares font family lists; nil and empty are distinct
// (nil means unset).
func equalFamilies(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.Equal(a, b)
}
