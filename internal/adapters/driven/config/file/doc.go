// Package file provides the TOML file-backed settings store.
package file
