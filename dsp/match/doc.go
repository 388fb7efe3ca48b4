// Package match provides FFT-accelerated template matching over rows: the
// sliding squared Euclidean distance and the sliding normalized
// cross-correlation between a fixed pattern and every alignment where the
// pattern fully overlaps the input.
//
// Both matchers load the time-reversed pattern into an FFT filter so that
// one circular convolution realizes correlation against all alignments,
// then combine it with windowed moving sums to finish each alignment in
// constant time. The transform length is sized to inputLen + patternLen - 1,
// so the convolution is exact (no wrap-around aliasing).
package match
