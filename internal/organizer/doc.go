// Package organizer imports raw image drops into the per-entity folder layout
// the picker reads.
//
// A drop is either a ZIP archive or a directory of files named like
// "BetSpark 1.jpg" or "Roto Grinders 2.jpeg". Each supported image is mapped
// to a catalog entity by folding its name (accents removed, lowercase,
// punctuation and the trailing number dropped), optionally falling back to the
// parent folder name and a fuzzy match, then copied to
// <dest>/<folder>/<index><ext> where index is the first digit run in the name.
package organizer
