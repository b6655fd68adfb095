package format

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestFontBoldItalic(t *testing.T) {
	var f Font
	assert.Equal(t, false, f.Bold())
	assert.Equal(t, false, f.Italic())

	f.SetBold()
	assert.Equal(t, true, f.Bold())
	f.SetItalic()
	assert.Equal(t, true, f.Italic())

	heavy := WeightBlack
	f.Weight = &heavy
	assert.Equal(t, true, f.Bold())
	light := WeightLight
	f.Weight = &light
	assert.Equal(t, false, f.Bold())
}

func TestFontFamily(t *testing.T) {
	var f Font
	_, ok := f.Family()
	assert.Equal(t, false, ok)

	f.Families = []string{"Iosevka", "monospace"}
	fam, ok := f.Family()
	assert.Equal(t, true, ok)
	assert.Equal(t, "Iosevka", fam)
}

func TestTextFormatEqualTreatsUnsetAsDistinct(t *testing.T) {
	var a, b TextFormat
	assert.Equal(t, true, a.Equal(b))

	b.SetBold()
	assert.Equal(t, false, a.Equal(b))

	a.SetBold()
	assert.Equal(t, true, a.Equal(b))

	// an explicit normal weight is not the same as no weight at all
	normal := WeightNormal
	a = TextFormat{}
	b = TextFormat{}
	b.Weight = &normal
	assert.Equal(t, false, a.Equal(b))
}

func TestTextFormatMergeOverlaysSetFields(t *testing.T) {
	var base TextFormat
	base.SetBold()
	size := 12
	base.PointSize = &size

	var overlay TextFormat
	overlay.SetItalic()

	changed := base.MergeWith(overlay)
	assert.Equal(t, true, changed)
	assert.Equal(t, true, base.Bold())
	assert.Equal(t, true, base.Italic())
	assert.Equal(t, 12, *base.PointSize)

	// merging the same overlay again changes nothing
	changed = base.MergeWith(overlay)
	assert.Equal(t, false, changed)
}

func TestFontMergeClonesFamilies(t *testing.T) {
	var base Font
	overlay := Font{Families: []string{"Go Mono"}}

	changed := base.MergeWith(overlay)
	assert.Equal(t, true, changed)

	overlay.Families[0] = "mutated"
	assert.Equal(t, "Go Mono", base.Families[0])
}

func TestBlockFormatMerge(t *testing.T) {
	var base BlockFormat
	center := AlignHCenter
	heading := 2

	changed := base.MergeWith(BlockFormat{Alignment: &center})
	assert.Equal(t, true, changed)
	changed = base.MergeWith(BlockFormat{HeadingLevel: &heading})
	assert.Equal(t, true, changed)

	assert.Equal(t, AlignHCenter, *base.Alignment)
	assert.Equal(t, 2, *base.HeadingLevel)

	changed = base.MergeWith(BlockFormat{Alignment: &center})
	assert.Equal(t, false, changed)
}

func TestImageFormatCarriesTextFormat(t *testing.T) {
	name := "diagram.png"
	w := 640
	img := ImageFormat{Name: &name, Width: &w}
	img.SetBold()

	other := img
	assert.Equal(t, true, img.Equal(other))
	assert.Equal(t, KindImage, img.FormatKind())

	h := 480
	changed := img.MergeWith(ImageFormat{Height: &h})
	assert.Equal(t, true, changed)
	assert.Equal(t, 480, *img.Height)
	assert.Equal(t, "diagram.png", *img.Name)
}

func TestFormatKinds(t *testing.T) {
	assert.Equal(t, KindFrame, FrameFormat{}.FormatKind())
	assert.Equal(t, KindBlock, BlockFormat{}.FormatKind())
	assert.Equal(t, KindText, TextFormat{}.FormatKind())
	assert.Equal(t, "frame", KindFrame.String())
	assert.Equal(t, "image", KindImage.String())
}

func TestFrameFormatMerge(t *testing.T) {
	var base FrameFormat
	pad := 4
	float := FloatLeft

	changed := base.MergeWith(FrameFormat{Padding: &pad, Position: &float})
	assert.Equal(t, true, changed)
	assert.Equal(t, 4, *base.Padding)
	assert.Equal(t, FloatLeft, *base.Position)

	changed = base.MergeWith(FrameFormat{})
	assert.Equal(t, false, changed)
}
