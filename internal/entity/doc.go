// Package entity models one dashboard tile and the remote actions behind it.
//
// A Tile holds the last known state of a Home Assistant entity plus the
// visual flags the grid needs (selected, being moved, held, staged
// brightness). Its methods are pure and run on the UI event loop.
//
// Operator performs the network side of an action (switching a light,
// toggling, running a script, setting brightness). It blocks and is meant to
// be called from a background command; the caller applies optimistic updates
// and rollbacks to the tile when the result comes back.
//
// Types are classified from the domain prefix when a binding says "auto":
//
//	light                                           -> light
//	switch, input_boolean, fan, cover, media_player -> toggle
//	sensor, binary_sensor                           -> sensor
//	climate                                         -> climate
//	script, automation, scene, button               -> action
//	anything else                                   -> toggle
package entity
