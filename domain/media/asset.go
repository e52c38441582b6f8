package media

import "fmt"

// Kind identifies the stream content of a media file.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Asset is a reference to a media file on durable storage.
// Intermediate assets are owned by the pipeline and eligible for deletion;
// externally-supplied inputs and outputs are never deleted by the pipeline.
type Asset struct {
	Path         string
	Kind         Kind
	Intermediate bool
}

// NewAsset creates an externally-supplied asset with validation.
func NewAsset(path string, kind Kind) (Asset, error) {
	if path == "" {
		return Asset{}, fmt.Errorf("asset path is required")
	}
	if kind != KindVideo && kind != KindAudio {
		return Asset{}, fmt.Errorf("unknown asset kind %q", kind)
	}
	return Asset{Path: path, Kind: kind}, nil
}

// NewIntermediate creates a pipeline-owned asset eligible for cleanup.
// Callers are responsible for supplying a collision-free path.
func NewIntermediate(path string, kind Kind) Asset {
	return Asset{Path: path, Kind: kind, Intermediate: true}
}

// IsZero reports whether the asset has been populated.
func (a Asset) IsZero() bool {
	return a.Path == ""
}

// KindForExt maps a file extension (without dot) to an asset kind.
// Audio container extensions map to KindAudio; everything else is video.
func KindForExt(ext string) Kind {
	switch ext {
	case "mp3", "wav", "aac", "m4a", "flac", "ogg", "opus":
		return KindAudio
	default:
		return KindVideo
	}
}
