// Package sliding provides single-pass windowed statistics over rows:
// a compensated moving sum and a sliding executor computing mean, variance,
// standard deviation, skewness, or kurtosis over a fixed-size window.
//
// Cumulative sums use Kahan-Babuska-Neumaier compensation so that window
// sums derived as differences of cumulative values stay accurate over long
// rows. Higher moments are recomputed directly over the raw window at each
// position, which keeps them numerically robust at O(window) cost per
// output sample.
package sliding
