// Package textutil provides name folding and fuzzy matching used when
// importing image folders.
//
// FoldName reduces display names such as "Roto Grinders" or "Pronóstico"
// to ASCII-ish lowercase runs with accents removed. EntityKey builds on it to
// derive catalog entity identifiers from raw file names, and Similarity scores
// two keys by character bigram overlap so near-misses ("betai" vs "bet_ai")
// still resolve to a known entity.
package textutil
