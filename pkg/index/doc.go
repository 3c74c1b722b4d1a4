// Package index models the street and point-of-interest index printed
// next to or after a map.
//
// An [Indexer] produces [Category] values for one page; [ApplyGrid]
// resolves each [Item] to a grid reference; [Merge] combines the
// per-page indexes of a multi-page map into one locale-sorted index.
//
// # Ordering
//
// Street categories (one per initial letter, plus "0-9") always precede
// other categories, and the two groups are never interleaved. Items are
// sorted with a [Collator] for the job's language, and consecutive items
// with the same label have the later labels blanked so the renderer does
// not repeat them.
package index
