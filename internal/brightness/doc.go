// Package brightness coalesces brightness key presses into single commits.
//
// Holding Ctrl+Up on a light produces a press every few tens of
// milliseconds. Each press is staged and shown immediately; one second after
// the first press of a burst the staged values are committed with one service
// call per light. While a commit is in flight further presses are staged but
// do not start a second commit; they are picked up when the first finishes.
//
//	idle --Stage--> armed --Fire--> committing --Done(last)--> idle | armed
//	armed --Discard--> idle
package brightness
