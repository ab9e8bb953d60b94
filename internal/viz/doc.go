// Package viz renders saved runs in the terminal.
//
//   - [PlotSummary] and [PlotAttitudes]: asciigraph line charts
//   - [Canvas]: Braille pixel canvas used for adjacency and trajectory views
//   - [Replay]: Bubble Tea model that steps through a saved run
//
// # Replay Key Bindings
//
//	Space - Pause/Resume playback
//	←/→   - Step backward/forward
//	Home  - Jump to step 0
//	T     - Cycle color themes
//	Q     - Quit
package viz
