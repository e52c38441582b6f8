package media

import (
	"strings"
	"testing"
)

func TestNewAsset(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		kind        Kind
		wantErr     bool
		errContains string
	}{
		{
			name: "valid video asset",
			path: "/media/clip.mp4",
			kind: KindVideo,
		},
		{
			name: "valid audio asset",
			path: "/media/track.mp3",
			kind: KindAudio,
		},
		{
			name:        "empty path",
			path:        "",
			kind:        KindVideo,
			wantErr:     true,
			errContains: "path is required",
		},
		{
			name:        "unknown kind",
			path:        "/media/clip.mp4",
			kind:        Kind("subtitle"),
			wantErr:     true,
			errContains: "unknown asset kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAsset(tt.path, tt.kind)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewAsset() expected error, got nil")
					return
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewAsset() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("NewAsset() unexpected error: %v", err)
				return
			}
			if got.Intermediate {
				t.Errorf("NewAsset() produced an intermediate asset; want externally-supplied")
			}
		})
	}
}

func TestNewIntermediate(t *testing.T) {
	a := NewIntermediate("/scratch/job-1-extracted.mp3", KindAudio)

	if !a.Intermediate {
		t.Errorf("NewIntermediate() Intermediate = false, want true")
	}
	if a.Kind != KindAudio {
		t.Errorf("NewIntermediate() Kind = %q, want %q", a.Kind, KindAudio)
	}
}

func TestKindForExt(t *testing.T) {
	tests := []struct {
		ext  string
		want Kind
	}{
		{"mp3", KindAudio},
		{"wav", KindAudio},
		{"aac", KindAudio},
		{"mp4", KindVideo},
		{"mkv", KindVideo},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := KindForExt(tt.ext); got != tt.want {
				t.Errorf("KindForExt(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}
