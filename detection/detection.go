package detection

import (
	"context"
	"fmt"
	"strings"
)

// Label is one of the two mutually exclusive classification outcomes.
type Label string

const (
	LabelAIGenerated Label = "AI-Generated"
	LabelHumanSpoken Label = "Human-Spoken"
)

// ErrBadAudio marks failures caused by the caller's payload (undecodable,
// too short, too long) as opposed to failures of the pipeline itself.
var ErrBadAudio = fmt.Errorf("bad audio input")

var supportedLanguages = map[string]struct{}{
	"Tamil":     {},
	"English":   {},
	"Hindi":     {},
	"Malayalam": {},
	"Telugu":    {},
}

var supportedFormats = map[string]struct{}{
	"mp3": {},
}

func SupportedLanguage(language string) bool {
	_, ok := supportedLanguages[language]
	return ok
}

func SupportedFormat(format string) bool {
	_, ok := supportedFormats[strings.ToLower(format)]
	return ok
}

func Languages() []string {
	out := make([]string, 0, len(supportedLanguages))
	for l := range supportedLanguages {
		out = append(out, l)
	}
	return out
}

// Clip is a decoded waveform ready for analysis: mono samples in [-1, 1).
type Clip struct {
	Samples    []float64
	SampleRate int
	// Duration of the source audio in seconds, as reported by the probe.
	Duration float64
}

// Features are the acoustic measurements the classifier derives from a clip.
type Features struct {
	PitchMean        float64
	PitchStd         float64
	Jitter           float64
	Shimmer          float64
	HNR              float64
	SpectralFlatness float64
	SilenceRatio     float64
}

// Result is a single classification verdict.
type Result struct {
	Label      Label
	Confidence float64
	// Indicators describe synthetic-speech markers that fired, Traits natural
	// ones; both feed the rendered explanation.
	Indicators []string
	Traits     []string
	Features   Features
}

// AudioDecoder turns a raw encoded payload (MP3 bytes) into a Clip.
//
// Implementations return an error wrapping ErrBadAudio when the payload
// itself is at fault.
type AudioDecoder interface {
	Decode(ctx context.Context, data []byte) (*Clip, error)
}

// VoiceClassifier labels a decoded clip as AI-generated or human-spoken.
type VoiceClassifier interface {
	Classify(ctx context.Context, clip *Clip, language string) (*Result, error)
}
