// Package textutil normalises song names into catalog slugs and display titles.
//
// Slugs are ASCII, lowercase and hyphen-separated: accents are folded by
// NFKD decomposition with combining marks dropped, and every other run of
// non-alphanumeric characters collapses to a single hyphen.
package textutil
