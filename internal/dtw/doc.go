// Package dtw computes Dynamic Time Warping distances between scalar
// sequences and recovers the optimal monotone warping path.
//
// Two regimes are used by cantor:
//
//   - banded (Sakoe–Chiba) alignment of mean-collapsed chroma sequences when
//     mapping a karaoke timeline onto a reference recording
//   - unbanded alignment of voiced pitch contours when scoring a phrase
//
// Cost of a cell is |a[i] - b[j]|; the accumulated distance is the sum of cell
// costs along the path. Time and memory are O(N·M) for the full matrix; cells
// outside the band are never evaluated.
package dtw
