package format

import "slices"

// Weight is a predefined font weight, compatible with OpenType values.
type Weight int

const (
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightNormal     Weight = 400
	WeightMedium     Weight = 500
	WeightDemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

// Style selects between upright and slanted glyph variants.
type Style int

const (
	StyleNormal Style = iota
	StyleItalic
	StyleOblique
)

// Capitalisation transforms the rendered case of a run.
type Capitalisation int

const (
	MixedCase Capitalisation = iota
	AllUppercase
	AllLowercase
	SmallCaps
	Capitalize
)

// Font describes typeface attributes of a text run. Like the formats,
// every attribute is optional.
type Font struct {
	Weight         *Weight
	Style          *Style
	Underlined     *bool
	StrikeOut      *bool
	PointSize      *int
	Capitalisation *Capitalisation
	Families       []string
	LetterSpacing  *int
	WordSpacing    *int
}

// SetBold sets the weight to bold.
func (f *Font) SetBold() {
	w := WeightBold
	f.Weight = &w
}

// Bold reports whether the effective weight is bold or heavier.
func (f Font) Bold() bool {
	return f.Weight != nil && *f.Weight >= WeightBold
}

// SetItalic sets the style to italic.
func (f *Font) SetItalic() {
	s := StyleItalic
	f.Style = &s
}

// Italic reports whether the style is italic or oblique.
func (f Font) Italic() bool {
	return f.Style != nil && *f.Style >= StyleItalic
}

// Family returns the preferred font family, if any is set.
func (f Font) Family() (string, bool) {
	if len(f.Families) == 0 {
		return "", false
	}
	return f.Families[0], true
}

// Equal reports whether both fonts set the same attributes to the same
// values.
func (f Font) Equal(other Font) bool {
	return eqField(f.Weight, other.Weight) &&
		eqField(f.Style, other.Style) &&
		eqField(f.Underlined, other.Underlined) &&
		eqField(f.StrikeOut, other.StrikeOut) &&
		eqField(f.PointSize, other.PointSize) &&
		eqField(f.Capitalisation, other.Capitalisation) &&
		equalFamilies(f.Families, other.Families) &&
		eqField(f.LetterSpacing, other.LetterSpacing) &&
		eqField(f.WordSpacing, other.WordSpacing)
}

// MergeWith overlays the set fields of other onto f, reporting whether
// anything changed.
func (f *Font) MergeWith(other Font) bool {
	changed := mergeField(&f.Weight, other.Weight)
	changed = mergeField(&f.Style, other.Style) || changed
	changed = mergeField(&f.Underlined, other.Underlined) || changed
	changed = mergeField(&f.StrikeOut, other.StrikeOut) || changed
	changed = mergeField(&f.PointSize, other.PointSize) || changed
	changed = mergeField(&f.Capitalisation, other.Capitalisation) || changed
	if other.Families != nil && !equalFamilies(f.Families, other.Families) {
		f.Families = slices.Clone(other.Families)
		changed = true
	}
	changed = mergeField(&f.LetterSpacing, other.LetterSpacing) || changed
	changed = mergeField(&f.WordSpacing, other.WordSpacing) || changed
	return changed
}
