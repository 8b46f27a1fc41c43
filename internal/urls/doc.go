// Package urls centralizes external documentation links so CLI output and
// error hints reference the same pages.
package urls
