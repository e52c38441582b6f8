package pipeline

import (
	"strings"
	"testing"

	"voiceswap/domain/media"
	"voiceswap/domain/voice"
)

func testVideoAsset(t *testing.T) media.Asset {
	t.Helper()
	a, err := media.NewAsset("/media/clip.mp4", media.KindVideo)
	if err != nil {
		t.Fatalf("NewAsset() unexpected error: %v", err)
	}
	return a
}

func TestNewJob(t *testing.T) {
	videoAsset := testVideoAsset(t)
	audioAsset := media.NewIntermediate("/scratch/a.mp3", media.KindAudio)

	tests := []struct {
		name        string
		input       media.Asset
		voice       voice.Identity
		outputPath  string
		errContains string
	}{
		{
			name:       "valid job",
			input:      videoAsset,
			voice:      "voice-123",
			outputPath: "/media/clip-out.mp4",
		},
		{
			name:        "missing input",
			input:       media.Asset{},
			voice:       "voice-123",
			outputPath:  "/media/clip-out.mp4",
			errContains: "input video asset is required",
		},
		{
			name:        "audio input",
			input:       audioAsset,
			voice:       "voice-123",
			outputPath:  "/media/clip-out.mp4",
			errContains: "must be a video",
		},
		{
			name:        "missing voice",
			input:       videoAsset,
			voice:       "",
			outputPath:  "/media/clip-out.mp4",
			errContains: "voice identity is required",
		},
		{
			name:        "missing output path",
			input:       videoAsset,
			voice:       "voice-123",
			outputPath:  "",
			errContains: "output path is required",
		},
		{
			name:        "output overwrites input",
			input:       videoAsset,
			voice:       "voice-123",
			outputPath:  "/media/clip.mp4",
			errContains: "must differ from the input path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewJob(tt.input, tt.voice, tt.outputPath)

			if tt.errContains != "" {
				if err == nil {
					t.Errorf("NewJob() expected error, got nil")
					return
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewJob() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("NewJob() unexpected error: %v", err)
				return
			}
			if job.ID == "" {
				t.Errorf("NewJob() produced empty job ID")
			}
			if job.Status() != StatusPending {
				t.Errorf("NewJob() status = %s, want %s", job.Status(), StatusPending)
			}
		})
	}
}

func TestJobIDsAreUnique(t *testing.T) {
	a, err := NewJob(testVideoAsset(t), "voice-123", "/media/out-a.mp4")
	if err != nil {
		t.Fatalf("NewJob() unexpected error: %v", err)
	}
	b, err := NewJob(testVideoAsset(t), "voice-123", "/media/out-b.mp4")
	if err != nil {
		t.Fatalf("NewJob() unexpected error: %v", err)
	}

	if a.ID == b.ID {
		t.Errorf("two jobs share ID %q", a.ID)
	}
}

func TestJobTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []Status
		wantErr bool
	}{
		{
			name: "full successful run",
			path: []Status{StatusExtracting, StatusTransforming, StatusCombining, StatusSucceeded},
		},
		{
			name: "fail during extraction",
			path: []Status{StatusExtracting, StatusFailed},
		},
		{
			name: "fail during transformation",
			path: []Status{StatusExtracting, StatusTransforming, StatusFailed},
		},
		{
			name:    "skip a stage",
			path:    []Status{StatusExtracting, StatusCombining},
			wantErr: true,
		},
		{
			name:    "succeed without combining",
			path:    []Status{StatusExtracting, StatusTransforming, StatusSucceeded},
			wantErr: true,
		},
		{
			name:    "advance past success",
			path:    []Status{StatusExtracting, StatusTransforming, StatusCombining, StatusSucceeded, StatusExtracting},
			wantErr: true,
		},
		{
			name:    "fail a succeeded job",
			path:    []Status{StatusExtracting, StatusTransforming, StatusCombining, StatusSucceeded, StatusFailed},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewJob(testVideoAsset(t), "voice-123", "/media/clip-out.mp4")
			if err != nil {
				t.Fatalf("NewJob() unexpected error: %v", err)
			}

			for i, next := range tt.path {
				err = job.Transition(next)
				last := i == len(tt.path)-1

				if err != nil {
					if !last || !tt.wantErr {
						t.Fatalf("Transition(%s) unexpected error: %v", next, err)
					}
					return
				}
			}

			if tt.wantErr {
				t.Errorf("Transition path %v completed without error", tt.path)
			}
		})
	}
}

func TestJobFailIsIdempotent(t *testing.T) {
	job, err := NewJob(testVideoAsset(t), "voice-123", "/media/clip-out.mp4")
	if err != nil {
		t.Fatalf("NewJob() unexpected error: %v", err)
	}

	job.Fail()
	job.Fail()

	if job.Status() != StatusFailed {
		t.Errorf("Status() = %s, want %s", job.Status(), StatusFailed)
	}
}

func TestJobIntermediatesAreCopied(t *testing.T) {
	job, err := NewJob(testVideoAsset(t), "voice-123", "/media/clip-out.mp4")
	if err != nil {
		t.Fatalf("NewJob() unexpected error: %v", err)
	}

	job.AddIntermediate(media.NewIntermediate("/scratch/a.mp3", media.KindAudio))
	got := job.Intermediates()
	got[0].Path = "/elsewhere.mp3"

	if job.Intermediates()[0].Path != "/scratch/a.mp3" {
		t.Errorf("Intermediates() exposed internal slice")
	}
}
