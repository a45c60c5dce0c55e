package assetcache

// Asset is a loaded binary resource held by the cache. Implementations
// own whatever backing memory or handles the payload carries and must
// free them in Release. The cache calls Release at most once per entry.
type Asset interface {
	Release()
}

// ModelAsset is the raw bytes of a binary character or prop model
// (typically glTF). Parsing is the presentation layer's concern.
type ModelAsset struct {
	Path string
	Data []byte
}

// Release drops the model bytes
func (a *ModelAsset) Release() {
	a.Data = nil
}

// TextureAsset is a loaded texture image
type TextureAsset struct {
	Path   string
	Data   []byte
	Width  int
	Height int
}

// Release drops the texture bytes
func (a *TextureAsset) Release() {
	a.Data = nil
}
