// Package score compares a singer's pitch contour with the warped reference
// contour phrase by phrase.
//
// Each phrase is aligned independently with unbanded DTW over the voiced
// samples, so a singer who is early or late within a phrase is not penalised
// for timing when judging pitch. The timing drift is reported separately as
// TimingOffset. Phrases are scored concurrently; none shares mutable state.
package score
