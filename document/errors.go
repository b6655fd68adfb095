package document

import "errors"

var (
	// ErrInvalidRange indicates an offset or range outside the document
	// bounds, or a range whose start exceeds its end.
	ErrInvalidRange = errors.New("offset or range outside document bounds")

	// ErrInvalidReference indicates an unknown or destroyed element
	// identifier, or a structural operation on the wrong element.
	ErrInvalidReference = errors.New("unknown or destroyed element")

	// ErrTypeMismatch indicates a format payload whose variant does not
	// match the element it is applied to.
	ErrTypeMismatch = errors.New("format variant does not match element")

	// ErrStructuralViolation indicates a mutation that would break the
	// nesting rules: blocks hold only text and images, frames hold only
	// blocks and frames.
	ErrStructuralViolation = errors.New("element nesting rule violated")
)
