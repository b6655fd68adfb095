// Package format defines the formatting payloads attached to document
// elements: FrameFormat, BlockFormat, TextFormat and ImageFormat.
//
// The document core treats these as opaque attribute bags: it stores,
// replaces and merges them and reports when they change, but never
// interprets individual attributes. All attributes are optional; a nil
// field means "unset", and merging overlays only the fields the other
// format actually sets. Rendering collaborators decide what each
// attribute means visually.
package format
