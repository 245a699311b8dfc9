package spectrum

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotPowerOfTwo is returned when a transform length is not a power of two.
var ErrNotPowerOfTwo = errors.New("length is not a power of two")

// FFT computes the discrete Fourier transform of the complex signal re + i*im
// in place, using the iterative radix-2 Cooley-Tukey algorithm with the
// forward sign convention X[k] = sum x[n] exp(-2*pi*i*k*n/N). The length must
// be a power of two; other lengths are rejected, never padded or truncated.
func FFT(re, im []float64) error {
	n := len(re)
	if len(im) != n {
		return fmt.Errorf("fft: real and imaginary parts differ in length (%d != %d)", n, len(im))
	}
	if n == 0 || n&(n-1) != 0 {
		return fmt.Errorf("fft: %w: %d", ErrNotPowerOfTwo, n)
	}
	bitReverse(re, im)
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		for j := 0; j < half; j++ {
			ang := 2 * math.Pi * float64(j) / float64(size)
			wr, wi := math.Cos(ang), -math.Sin(ang)
			for i := j; i < n; i += size {
				k := i + half
				tr := re[k]*wr - im[k]*wi
				ti := re[k]*wi + im[k]*wr
				re[k], im[k] = re[i]-tr, im[i]-ti
				re[i], im[i] = re[i]+tr, im[i]+ti
			}
		}
	}
	return nil
}

// bitReverse permutes both arrays so that element i moves to the index whose
// binary digits are those of i reversed. Every pair is swapped once.
func bitReverse(re, im []float64) {
	n := len(re)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
}
