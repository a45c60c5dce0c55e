package assetcache

import (
	"fmt"

	"github.com/softpunk/emberfell/internal/model"
)

// Logical asset keys. Keys are stable identifiers independent of where
// the asset actually lives; the catalog owns the mapping to paths.
const (
	KeyMaleCharacter   = "maleCharacter"
	KeyFemaleCharacter = "femaleCharacter"
	KeyGroundTexture   = "groundTexture"
)

// CharacterKey returns the asset key for a player's character model
func CharacterKey(g model.Gender) string {
	if g == model.GenderFemale {
		return KeyFemaleCharacter
	}
	return KeyMaleCharacter
}

// Catalog maps logical asset keys to storage paths relative to an asset
// root (a directory on disk or a URL prefix, depending on the fetcher).
type Catalog struct {
	paths map[string]string
}

// NewCatalog returns a catalog with the default key layout
func NewCatalog() *Catalog {
	return &Catalog{
		paths: map[string]string{
			KeyMaleCharacter:   "models/male.glb",
			KeyFemaleCharacter: "models/female.glb",
			KeyGroundTexture:   "textures/ground.png",
		},
	}
}

// Path returns the storage path for key
func (c *Catalog) Path(key string) (string, error) {
	path, ok := c.paths[key]
	if !ok {
		return "", fmt.Errorf("no catalog entry for asset key %q", key)
	}
	return path, nil
}
