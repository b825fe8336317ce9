// Package pitch moves a reference vocal pitch contour onto the karaoke
// timeline.
//
// Clean gates the raw tracker output by confidence and smooths the voiced
// samples. Warp then samples the cleaned contour on a fixed-rate karaoke
// grid through a warp.Index, treating reference times outside the recording
// as unvoiced. Grid frames that fall between warp segments are mapped through
// the nearest segment and counted in Contour.Uncovered rather than failing
// the build.
package pitch
