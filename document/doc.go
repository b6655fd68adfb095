// Package document implements a hierarchical model for rich-text
// documents, addressed both by tree position and by linear character
// offset.
//
// A TextDocument owns a tree of elements: the root Frame contains
// Blocks (paragraphs) and nested Frames; a Block contains Text runs and
// inline Images. Every element has a stable identifier that is never
// reused. The tree is mutated through TextCursor values, which hold a
// pair of linear offsets (position and anchor) and re-resolve them
// against the tree on every call, so any number of cursors stay valid
// across mutations made through any of them.
//
// The linear offset space is the in-order concatenation of every text
// run's rune count, one unit per inline image, and one separator unit
// per block boundary. PlainText renders that space with "\n" for the
// separators.
//
// Observers register text-change and element-change callbacks on the
// document. Callbacks run synchronously at the end of each mutating
// operation: at most one text-change per operation (carrying the net
// size delta) and element-changes deduplicated per (element, reason)
// pair.
//
// Normalization policy: adjacent text runs with equal formats are
// merged, and emptied runs pruned, only while a removal is cleaned up.
// Insertions and format changes never merge runs. A document always
// keeps its skeleton of root frame, at least one block, and at least
// one text run per block.
package document
