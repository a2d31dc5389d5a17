// Package importer copies a catalog into a persistent repository.
//
// Apps are written in one batch and nouns in batches per type, with
// progress reporting and retry with exponential backoff for storage
// writes that fail transiently (a busy SQLite file, a badger conflict).
package importer
