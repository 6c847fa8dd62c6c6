// Package preflight provides readiness checks for the filesystem paths, image
// folders, and text service a generation run depends on.
//
// The CLI "slidegen check" command runs RunAll and prints the results. Checks
// run concurrently; results keep a stable order. The text service check is
// omitted when the provider is "none".
package preflight
