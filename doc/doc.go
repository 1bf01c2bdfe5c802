// Package doc implements the document engine the editing-surface extensions run
// against.
//
// A Document is an ordered list of blocks. Text blocks hold runs of text with
// marks; image blocks are atoms of length 1. Positions are 0-based
// (Block, Offset) pairs where Offset counts grapheme clusters within the block.
// Ranges are half-open selections in document order: [From, To).
//
// Every mutation goes through Document.Transact, which applies a batch of edits
// atomically, records undo history and notifies subscribers synchronously.
package doc
