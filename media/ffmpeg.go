package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/voiceguard/voiceguard/detection"
	"github.com/voiceguard/voiceguard/utils"
)

// DecodePCMFromFile decodes the input to signed 16-bit little-endian mono
// PCM at the configured sample rate, returning the raw sample bytes.
//
// A failure to start the command is a pipeline error; a non-zero exit means
// ffmpeg could not read the input and is reported as bad audio.
func (f *FFmpeg) DecodePCMFromFile(ctx context.Context, filePath string, maxSize int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx,
		f.ffmpegBinary,
		"-i", filePath,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(f.sampleRate),
		"-ac", "1",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}

	output, err := utils.ReadAllLimit(stdout, maxSize)
	if errors.Is(err, utils.ErrIOLimitReached) {
		// The input decoded to more audio than the duration cap allows, so
		// the payload is at fault. Cancel so the abandoned process gets
		// reaped before returning.
		cancel()
		_ = cmd.Wait()
		return nil, fmt.Errorf("%w: decoded audio exceeds size limit", detection.ErrBadAudio)
	} else if err != nil {
		return nil, fmt.Errorf("reading output: %w", err)
	}

	err = cmd.Wait()
	if err != nil {
		return nil, fmt.Errorf("%w: running ffmpeg: %v", detection.ErrBadAudio, err)
	}

	return output, nil
}
