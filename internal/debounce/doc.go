// Package debounce rejects key events that repeat faster than a per-key window.
package debounce
