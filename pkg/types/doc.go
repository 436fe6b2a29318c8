// Package types defines the in-memory object graph of an Anki collection
// package: the collection record, its note types, decks and deck options,
// the relational records (notes, cards, review log, graves), the media index
// entries, the integer-coded enumerations used throughout the legacy format,
// and the standard error kinds reported by the codec.
//
// Integer wire codes stay behind the XFromCode and Code helpers in enums.go;
// every exported struct field holds a typed variant instead.
package types
