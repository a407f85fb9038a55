// Package output prepares the build output directory: it wipes and recreates
// the tree, then merges asset and data directories into it.
package output
