// Package view holds the interactive state of a story visualization.
//
// A [Controller] owns everything that changes while a story is watched: the
// visible-count cursor, the Idle/Playing playback state, and the pan/zoom
// transform. Hosts drive it from a single event loop. The browser document
// mirrors it in JavaScript, the terminal replay calls it from bubbletea
// messages, and snapshot rendering sets it up once and asks for a [Frame].
//
// # Projection
//
// Commit i on lane l is drawn at
//
//	x = m + i/max(1, visible-1) * (W-2m) * zoom + panX
//	y = m + l/max(1, lanes-1)   * (H-2m) * zoom + panY
//
// where m is the margin scaled by the device pixel ratio and W, H are the
// canvas size in device pixels. Zoom scales about the margin origin, not
// the pointer. The projection is recomputed on every frame.
//
// # Playback
//
// TogglePlay starts playback from Idle and pauses it from Playing. Each Tick
// while Playing reveals one more commit; reaching the last commit stops
// playback and further ticks are ignored until the next TogglePlay. With no
// commits, or with every commit already visible, TogglePlay stays Idle.
//
// The controller is not safe for concurrent use.
package view
