// Package output persists generated posts.
//
// WriteJSON serializes a post under an advisory file lock and renames a temp
// file into place so concurrent readers never see partial records. WritePreview
// renders the same post as a standalone HTML page for eyeballing a carousel
// before publishing.
package output
