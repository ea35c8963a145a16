package heuristic

import (
	"math"
	"math/rand"
	"testing"
)

func TestPreEmphasis(t *testing.T) {
	got := preEmphasis([]float64{1, 1, 1}, 0.97)
	want := []float64{1, 0.03, 0.03}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("preEmphasis()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if preEmphasis(nil, 0.97) != nil {
		t.Errorf("preEmphasis(nil) should be nil")
	}
}

func TestRMSFramesConstantSignal(t *testing.T) {
	x := make([]float64, 32)
	for i := range x {
		x[i] = 0.5
	}

	for _, rms := range rmsFrames(x, 8, 4) {
		if math.Abs(rms-0.5) > 1e-9 {
			t.Fatalf("rms = %v, want 0.5", rms)
		}
	}
}

func TestRMSFramesShortSignal(t *testing.T) {
	// Shorter than one frame: falls back to a single whole-signal frame.
	got := rmsFrames([]float64{0.5, -0.5}, 2048, 512)
	if len(got) != 1 || math.Abs(got[0]-0.5) > 1e-9 {
		t.Fatalf("rmsFrames(short) = %v, want [0.5]", got)
	}
}

func TestSilenceRatio(t *testing.T) {
	loud := make([]float64, 8)
	for i := range loud {
		loud[i] = 0.5
	}
	x := append(loud, make([]float64, 8)...)

	ratio := silenceRatioOf(rmsFrames(x, 4, 4))
	if math.Abs(ratio-0.5) > 1e-9 {
		t.Fatalf("silence ratio = %v, want 0.5", ratio)
	}
}

func TestJitterOf(t *testing.T) {
	if j := jitterOf([]float64{200, 200, 200, 200}); j != 0 {
		t.Errorf("jitter of steady f0 = %v, want 0", j)
	}
	if j := jitterOf([]float64{200}); j != 0 {
		t.Errorf("jitter of single estimate = %v, want 0", j)
	}
	if j := jitterOf([]float64{180, 220, 180, 220}); j < 0.03 {
		t.Errorf("jitter of alternating f0 = %v, want >= 0.03", j)
	}
}

func TestShimmerOf(t *testing.T) {
	if sh := shimmerOf([]float64{0.4, 0.4, 0.4}); sh != 0 {
		t.Errorf("shimmer of constant amplitude = %v, want 0", sh)
	}
	if sh := shimmerOf([]float64{0.2, 0.8, 0.2, 0.8}); sh < 0.5 {
		t.Errorf("shimmer of swinging amplitude = %v, want large", sh)
	}
}

func TestTrackPitchSine(t *testing.T) {
	n := 3 * testSampleRate
	x := make([]float64, n)
	for i := range x {
		x[i] = 0.8 * math.Sin(2*math.Pi*220*float64(i)/testSampleRate)
	}

	f0 := trackPitch(x, testSampleRate, pitchFloorHz, pitchCeilHz)
	if len(f0) == 0 {
		t.Fatalf("no voiced frames detected in a steady tone")
	}
	for _, f := range f0 {
		if f < 180 || f > 260 {
			t.Fatalf("f0 = %v, want near 220", f)
		}
	}
}

func TestTrackPitchSilence(t *testing.T) {
	if f0 := trackPitch(make([]float64, testSampleRate), testSampleRate, pitchFloorHz, pitchCeilHz); len(f0) != 0 {
		t.Errorf("detected %d voiced frames in silence", len(f0))
	}
}

func TestSpectralFlatnessNoiseVsTone(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	noise := make([]float64, 4*frameLength)
	for i := range noise {
		noise[i] = rng.Float64()*2 - 1
	}

	tone := make([]float64, 4*frameLength)
	for i := range tone {
		tone[i] = math.Sin(2 * math.Pi * 440 * float64(i) / testSampleRate)
	}

	noiseFlatness := spectralFlatnessOf(noise)
	toneFlatness := spectralFlatnessOf(tone)

	if toneFlatness >= 0.01 {
		t.Errorf("tone flatness = %v, want < 0.01", toneFlatness)
	}
	if noiseFlatness < 10*toneFlatness {
		t.Errorf("noise flatness (%v) should dwarf tone flatness (%v)", noiseFlatness, toneFlatness)
	}
}

func TestHarmonicNoiseRatioBounds(t *testing.T) {
	tone := make([]float64, 2*testSampleRate)
	for i := range tone {
		tone[i] = 0.8 * math.Sin(2*math.Pi*220*float64(i)/testSampleRate)
	}

	hnr := harmonicNoiseRatio(tone, testSampleRate)
	if hnr < 0 || hnr > 40 {
		t.Fatalf("hnr = %v, want within [0, 40]", hnr)
	}

	if got := harmonicNoiseRatio([]float64{0.1}, testSampleRate); got != 10 {
		t.Errorf("hnr of a one-sample signal = %v, want the 10dB fallback", got)
	}
}

func TestFFTImpulse(t *testing.T) {
	buf := make([]complex128, 8)
	buf[0] = 1
	fft(buf)

	for i, v := range buf {
		if math.Abs(real(v)-1) > 1e-9 || math.Abs(imag(v)) > 1e-9 {
			t.Fatalf("fft(impulse)[%d] = %v, want 1", i, v)
		}
	}
}

func TestPowerSpectrumPeakBin(t *testing.T) {
	// 8 cycles over 64 samples: the peak must land on bin 8.
	frame := make([]float64, 64)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * 8 * float64(i) / 64)
	}

	power := powerSpectrum(frame)
	peak := 0
	for i, p := range power {
		if p > power[peak] {
			peak = i
		}
	}
	if peak != 8 {
		t.Fatalf("peak bin = %d, want 8", peak)
	}
}
