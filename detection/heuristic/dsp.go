package heuristic

import "math"

const (
	frameLength = 2048
	hopLength   = 512

	// Pitch search range, roughly C2 to C7.
	pitchFloorHz = 65.41
	pitchCeilHz  = 2093.0

	// Frames quieter than this RMS are treated as silence / unvoiced.
	silenceRMS = 0.01

	// Minimum normalized autocorrelation for a frame to count as voiced.
	voicedThreshold = 0.5

	// Autocorrelation for the HNR estimate is bounded to the leading part of
	// the signal so long clips stay cheap to analyze.
	hnrWindowSeconds = 10
)

// preEmphasis boosts high frequencies to reduce the influence of
// low-frequency noise before pitch analysis.
func preEmphasis(x []float64, coeff float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	out := make([]float64, len(x))
	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - coeff*x[i-1]
	}
	return out
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func stdDev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := mean(x)
	sum := 0.0
	for _, v := range x {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(x)))
}

func meanAbsDiff(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(x); i++ {
		sum += math.Abs(x[i] - x[i-1])
	}
	return sum / float64(len(x)-1)
}

// rmsFrames computes the RMS energy of successive frames. Signals shorter
// than one frame produce a single whole-signal frame.
func rmsFrames(x []float64, frameLen, hop int) []float64 {
	if len(x) == 0 {
		return nil
	}
	if len(x) < frameLen {
		frameLen = len(x)
	}

	var out []float64
	for start := 0; start+frameLen <= len(x); start += hop {
		sum := 0.0
		for _, s := range x[start : start+frameLen] {
			sum += s * s
		}
		out = append(out, math.Sqrt(sum/float64(frameLen)))
	}
	return out
}

// trackPitch estimates the fundamental frequency of each voiced frame using
// normalized autocorrelation, returning only voiced estimates in frame
// order. Quiet frames and frames without a clear periodic peak are skipped.
//
// Among candidate lags it prefers the shortest one whose correlation is
// close to the maximum, which avoids locking onto a multiple of the period.
func trackPitch(x []float64, sampleRate int, fmin, fmax float64) []float64 {
	minLag := int(float64(sampleRate) / fmax)
	if minLag < 1 {
		minLag = 1
	}
	maxLag := int(float64(sampleRate) / fmin)

	var f0 []float64
	for start := 0; start+frameLength <= len(x); start += hopLength {
		frame := x[start : start+frameLength]

		hi := maxLag
		if hi > len(frame)-1 {
			hi = len(frame) - 1
		}
		if hi <= minLag {
			continue
		}

		energy := 0.0
		for _, s := range frame {
			energy += s * s
		}
		if math.Sqrt(energy/float64(len(frame))) < silenceRMS {
			continue
		}

		best := 0.0
		corr := make([]float64, hi+1)
		for lag := minLag; lag <= hi; lag++ {
			sum := 0.0
			for i := 0; i < len(frame)-lag; i++ {
				sum += frame[i] * frame[i+lag]
			}
			corr[lag] = sum / energy
			if corr[lag] > best {
				best = corr[lag]
			}
		}
		if best < voicedThreshold {
			continue
		}

		lag := 0
		for l := minLag; l <= hi; l++ {
			if corr[l] >= 0.9*best {
				lag = l
				break
			}
		}
		if lag == 0 {
			continue
		}
		f0 = append(f0, float64(sampleRate)/float64(lag))
	}
	return f0
}

// jitterOf measures the relative variation between consecutive pitch
// periods. Synthetic voices tend to have unnaturally low jitter.
func jitterOf(f0 []float64) float64 {
	if len(f0) < 2 {
		return 0
	}
	periods := make([]float64, len(f0))
	for i, f := range f0 {
		periods[i] = 1 / f
	}
	m := mean(periods)
	if m <= 0 {
		return 0
	}
	return meanAbsDiff(periods) / m
}

// shimmerOf measures the relative frame-to-frame amplitude variation, using
// RMS energy as the amplitude proxy.
func shimmerOf(rms []float64) float64 {
	if len(rms) < 2 {
		return 0
	}
	m := mean(rms)
	if m <= 0 {
		return 0
	}
	return meanAbsDiff(rms) / m
}

func silenceRatioOf(rms []float64) float64 {
	if len(rms) == 0 {
		return 0
	}
	silent := 0
	for _, v := range rms {
		if v < silenceRMS {
			silent++
		}
	}
	return float64(silent) / float64(len(rms))
}

// harmonicNoiseRatio estimates the harmonic-to-noise ratio in dB from the
// strongest autocorrelation peak against the noise floor behind it, clipped
// to [0, 40]. Returns a moderate 10 dB when no clear peak exists.
func harmonicNoiseRatio(x []float64, sampleRate int) float64 {
	const fallback = 10.0

	n := len(x)
	if limit := sampleRate * hnrWindowSeconds; n > limit {
		n = limit
	}
	if n < 2 {
		return fallback
	}
	seg := x[:n]

	// Search lags down to 50 Hz, keeping room for the noise window behind
	// the peak.
	searchLag := sampleRate / 50
	if searchLag > n-1 {
		searchLag = n - 1
	}
	maxLag := searchLag + 50
	if maxLag > n-1 {
		maxLag = n - 1
	}

	autocorr := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i < n-lag; i++ {
			sum += seg[i] * seg[i+lag]
		}
		autocorr[lag] = sum
	}

	peakIdx, peakVal := 0, 0.0
	for i := 1; i < searchLag && i < len(autocorr)-1; i++ {
		if autocorr[i] > autocorr[i-1] && autocorr[i] > autocorr[i+1] && autocorr[i] > peakVal {
			peakIdx, peakVal = i, autocorr[i]
		}
	}
	if peakIdx == 0 || peakVal <= 0 {
		return fallback
	}

	noiseEnd := peakIdx + 50
	if noiseEnd > len(autocorr) {
		noiseEnd = len(autocorr)
	}
	noise := mean(autocorr[peakIdx+1 : noiseEnd])
	if noise <= 0 {
		return fallback
	}

	hnr := 10 * math.Log10(peakVal/noise)
	if hnr < 0 {
		return 0
	}
	if hnr > 40 {
		return 40
	}
	return hnr
}

// spectralFlatnessOf averages the per-frame ratio of geometric to arithmetic
// mean of the power spectrum. Values near 1 indicate noise, values near 0 a
// tonal spectrum.
func spectralFlatnessOf(x []float64) float64 {
	const eps = 1e-10

	frameLen := frameLength
	if len(x) == 0 {
		return 0
	}
	if len(x) < frameLen {
		frameLen = len(x)
	}

	var flatness []float64
	for start := 0; start+frameLen <= len(x); start += hopLength {
		power := powerSpectrum(x[start : start+frameLen])

		logSum, sum := 0.0, 0.0
		for _, p := range power {
			logSum += math.Log(p + eps)
			sum += p
		}
		geo := math.Exp(logSum / float64(len(power)))
		arith := sum / float64(len(power))
		flatness = append(flatness, geo/(arith+eps))
	}
	return mean(flatness)
}
