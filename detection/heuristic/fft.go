package heuristic

import "math"

// fft computes an in-place iterative radix-2 FFT. len(buf) must be a power
// of two.
func fft(buf []complex128) {
	n := len(buf)
	if n < 2 {
		return
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		angle := -2 * math.Pi / float64(length)
		wBase := complex(math.Cos(angle), math.Sin(angle))
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			for k := 0; k < length/2; k++ {
				u := buf[start+k]
				v := buf[start+k+length/2] * w
				buf[start+k] = u + v
				buf[start+k+length/2] = u - v
				w *= wBase
			}
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// powerSpectrum returns |X[k]|^2 for the non-negative frequency bins of a
// Hann-windowed frame.
func powerSpectrum(frame []float64) []float64 {
	n := nextPow2(len(frame))
	buf := make([]complex128, n)
	for i, s := range frame {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(len(frame)))
		buf[i] = complex(s*w, 0)
	}
	fft(buf)

	power := make([]float64, n/2+1)
	for k := range power {
		re := real(buf[k])
		im := imag(buf[k])
		power[k] = re*re + im*im
	}
	return power
}
