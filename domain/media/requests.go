package media

import "fmt"

// DefaultAudioBitrate is the default bitrate for audio extraction
const DefaultAudioBitrate = "192k"

// ExtractRequest represents a request to extract the audio track from a video
type ExtractRequest struct {
	SourcePath string
	Bitrate    string
}

// NewExtractRequest creates a new ExtractRequest with validation
func NewExtractRequest(sourcePath, bitrate string) (*ExtractRequest, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source video path is required")
	}

	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}

	return &ExtractRequest{
		SourcePath: sourcePath,
		Bitrate:    bitrate,
	}, nil
}

// CombineRequest represents a request to merge a video stream with a
// replacement audio stream.
type CombineRequest struct {
	VideoPath string
	AudioPath string
}

// NewCombineRequest creates a new CombineRequest with validation
func NewCombineRequest(videoPath, audioPath string) (*CombineRequest, error) {
	if videoPath == "" {
		return nil, fmt.Errorf("video path is required")
	}
	if audioPath == "" {
		return nil, fmt.Errorf("audio path is required")
	}

	return &CombineRequest{
		VideoPath: videoPath,
		AudioPath: audioPath,
	}, nil
}
