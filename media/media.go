// Package media decodes uploaded audio into analyzable waveforms by
// shelling out to ffmpeg/ffprobe.
package media

import (
	"time"
)

const DefaultFFmpegBinary = "ffmpeg"
const DefaultFFprobeBinary = "ffprobe"

const DefaultCommandTimeout = time.Second * 30

// DefaultSampleRate is the analysis rate the classifier expects.
const DefaultSampleRate = 22050

// DefaultMaxDuration is the hard limit, in seconds, on audio accepted for
// classification.
const DefaultMaxDuration = 600

// Clips shorter than this decode to too few frames to measure anything.
const minClipSeconds = 0.5

type FFmpegOption func(*FFmpeg)

type FFmpeg struct {
	ffmpegBinary   string
	ffprobeBinary  string
	commandTimeout time.Duration

	sampleRate  int
	maxDuration float64
}

func WithFFmpegBinary(ffmpegBinary string) FFmpegOption {
	return func(f *FFmpeg) {
		f.ffmpegBinary = ffmpegBinary
	}
}

func WithFFprobeBinary(ffprobeBinary string) FFmpegOption {
	return func(f *FFmpeg) {
		f.ffprobeBinary = ffprobeBinary
	}
}

func WithCommandTimeout(timeout time.Duration) FFmpegOption {
	return func(f *FFmpeg) {
		f.commandTimeout = timeout
	}
}

func WithSampleRate(sampleRate int) FFmpegOption {
	return func(f *FFmpeg) {
		f.sampleRate = sampleRate
	}
}

func WithMaxDuration(seconds float64) FFmpegOption {
	return func(f *FFmpeg) {
		f.maxDuration = seconds
	}
}

func NewFFmpeg(options ...FFmpegOption) *FFmpeg {
	ffmpeg := &FFmpeg{
		ffmpegBinary:   DefaultFFmpegBinary,
		ffprobeBinary:  DefaultFFprobeBinary,
		commandTimeout: DefaultCommandTimeout,
		sampleRate:     DefaultSampleRate,
		maxDuration:    DefaultMaxDuration,
	}

	for _, option := range options {
		option(ffmpeg)
	}

	return ffmpeg
}
