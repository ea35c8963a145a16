package media

import (
	"context"
	"fmt"
	"os"

	"github.com/voiceguard/voiceguard/detection"
)

var _ detection.AudioDecoder = (*FFmpeg)(nil)

// Decode writes the payload to a temp file, validates its duration with
// ffprobe, and decodes it to a mono waveform for analysis. The temp file is
// removed on every exit path.
func (f *FFmpeg) Decode(ctx context.Context, data []byte) (*detection.Clip, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", detection.ErrBadAudio)
	}

	tempFile, err := writeTemp(data)
	if err != nil {
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	defer os.Remove(tempFile)

	duration, err := f.FFprobeDurationFromFile(ctx, tempFile)
	if err != nil {
		return nil, fmt.Errorf("%w: probing audio: %v", detection.ErrBadAudio, err)
	}
	if duration > f.maxDuration {
		return nil, fmt.Errorf("%w: audio too long (%.1fs, max %.0fs)", detection.ErrBadAudio, duration, f.maxDuration)
	}

	// Decoded payload is bounded by the duration cap plus codec slack.
	maxPCMBytes := int(f.maxDuration*float64(f.sampleRate))*2 + f.sampleRate
	pcm, err := f.DecodePCMFromFile(ctx, tempFile, maxPCMBytes)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	samples := SamplesFromPCM16(pcm)
	if float64(len(samples)) < minClipSeconds*float64(f.sampleRate) {
		return nil, fmt.Errorf("%w: audio too short (min %.1fs required)", detection.ErrBadAudio, minClipSeconds)
	}

	return &detection.Clip{
		Samples:    samples,
		SampleRate: f.sampleRate,
		Duration:   duration,
	}, nil
}

// SamplesFromPCM16 converts little-endian signed 16-bit PCM bytes to float
// samples in [-1, 1). A trailing odd byte is dropped.
func SamplesFromPCM16(pcm []byte) []float64 {
	samples := make([]float64, 0, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		v := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		samples = append(samples, float64(v)/32768.0)
	}
	return samples
}

// writeTemp persists the payload to a temp file, returning the path. The
// caller removes the file.
func writeTemp(data []byte) (string, error) {
	tempFile, err := os.CreateTemp("", "voiceguard-*.mp3")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	_, err = tempFile.Write(data)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}

	return tempFile.Name(), nil
}
