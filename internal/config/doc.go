// Package config manages user-level settings stored at
// ~/.treeforge/config.yaml: the default project root, the default layout
// file and the permission modes applied to created entries. Every key can
// be overridden with a TREEFORGE_-prefixed environment variable.
package config
