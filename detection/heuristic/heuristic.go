// Package heuristic classifies speech as synthetic or human using acoustic
// features: pitch variability, jitter, shimmer, harmonic-to-noise ratio,
// spectral flatness and pause structure. Synthetic voices tend to be too
// clean: monotone pitch, near-perfect timing, uniform amplitude.
package heuristic

import (
	"context"
	"fmt"

	"github.com/voiceguard/voiceguard/detection"
)

type Classifier struct {
	// Feature thresholds, calibrated against the reference clips.
	PitchStdThreshold float64 // Hz
	JitterThreshold   float64
	ShimmerThreshold  float64
	HNRHighThreshold  float64 // dB
	HNRLowThreshold   float64 // dB
	FlatnessThreshold float64
	SilenceThreshold  float64

	preEmphasisCoeff float64
}

type ClassifierOption func(*Classifier)

func WithPreEmphasis(coeff float64) ClassifierOption {
	return func(c *Classifier) {
		c.preEmphasisCoeff = coeff
	}
}

func NewClassifier(options ...ClassifierOption) *Classifier {
	c := &Classifier{
		PitchStdThreshold: 20.0,
		JitterThreshold:   0.03,
		ShimmerThreshold:  0.05,
		HNRHighThreshold:  20.0,
		HNRLowThreshold:   10.0,
		FlatnessThreshold: 0.01,
		SilenceThreshold:  0.02,

		preEmphasisCoeff: 0.97,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ detection.VoiceClassifier = (*Classifier)(nil)

func (c *Classifier) extractFeatures(clip *detection.Clip) detection.Features {
	y := clip.Samples

	// Pitch is tracked on the pre-emphasized signal; energy-based features
	// use the raw one.
	f0 := trackPitch(preEmphasis(y, c.preEmphasisCoeff), clip.SampleRate, pitchFloorHz, pitchCeilHz)
	rms := rmsFrames(y, frameLength, hopLength)

	return detection.Features{
		PitchMean:        mean(f0),
		PitchStd:         stdDev(f0),
		Jitter:           jitterOf(f0),
		Shimmer:          shimmerOf(rms),
		HNR:              harmonicNoiseRatio(y, clip.SampleRate),
		SpectralFlatness: spectralFlatnessOf(y),
		SilenceRatio:     silenceRatioOf(rms),
	}
}

// Classify scores the clip's features against the thresholds. Each feature
// that looks synthetic pushes the AI probability up, each natural-looking
// one pulls it down; the verdict is whichever side of 0.5 the probability
// lands on.
func (c *Classifier) Classify(ctx context.Context, clip *detection.Clip, language string) (*detection.Result, error) {
	if clip == nil || len(clip.Samples) == 0 {
		return nil, fmt.Errorf("empty clip")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features := c.extractFeatures(clip)

	score := 0.0
	var indicators, traits []string

	if features.PitchStd < c.PitchStdThreshold {
		score += 0.25
		indicators = append(indicators, fmt.Sprintf("Monotone pitch pattern (std: %.1fHz)", features.PitchStd))
	} else {
		score -= 0.15
		traits = append(traits, "dynamic intonation")
	}

	if features.Jitter < c.JitterThreshold {
		score += 0.25
		indicators = append(indicators, fmt.Sprintf("Perfect pitch timing (jitter: %.3f)", features.Jitter))
	} else {
		score -= 0.15
		traits = append(traits, "natural pitch variation")
	}

	if features.Shimmer < c.ShimmerThreshold {
		score += 0.2
		indicators = append(indicators, fmt.Sprintf("Uniform amplitude (shimmer: %.3f)", features.Shimmer))
	} else {
		score -= 0.1
		traits = append(traits, "organic amplitude changes")
	}

	if features.HNR > c.HNRHighThreshold {
		score += 0.15
		indicators = append(indicators, fmt.Sprintf("Synthetic clarity (HNR: %.1fdB)", features.HNR))
	} else if features.HNR < c.HNRLowThreshold {
		score += 0.1
		indicators = append(indicators, fmt.Sprintf("Unusual noise pattern (HNR: %.1fdB)", features.HNR))
	}

	if features.SpectralFlatness < c.FlatnessThreshold {
		score += 0.1
		indicators = append(indicators, "Overly tonal spectrum")
	}

	if features.SilenceRatio < c.SilenceThreshold {
		score += 0.05
		indicators = append(indicators, "Lack of natural pauses")
	}

	// Base 50%, adjusted by the weighted features.
	aiProbability := 0.5 + score*0.8
	if aiProbability < 0.01 {
		aiProbability = 0.01
	}
	if aiProbability > 0.99 {
		aiProbability = 0.99
	}

	result := &detection.Result{
		Indicators: indicators,
		Traits:     traits,
		Features:   features,
	}
	if aiProbability > 0.5 {
		result.Label = detection.LabelAIGenerated
		result.Confidence = aiProbability
	} else {
		result.Label = detection.LabelHumanSpoken
		result.Confidence = 1 - aiProbability
	}

	return result, nil
}
