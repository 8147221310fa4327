// Package cmd holds the wiring helpers shared by the binaries.
package cmd

import (
	"github.com/chazarkal/postpilot/pkg/persistence"
	"github.com/chazarkal/postpilot/pkg/persistence/file"
)

// NewPersistence builds the collection store from a data URL. Only the
// flat-file provider exists; anything else is treated as a plain directory
// path.
func NewPersistence(dataURL string) persistence.Persistence {
	return file.NewPersistence(dataURL)
}
