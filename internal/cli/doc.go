// Package cli defines the Cobra command tree for the treeforge CLI. Each file
// in this package registers one top-level command (apply, validate, show,
// config, version) with the root command. Commands delegate to the tree and
// scaffold packages and only handle flags, layout loading, and output.
package cli
