// Package viz renders sampling progress in the terminal.
//
// [Watch] is a Bubble Tea model that keeps drawing from a generator and shows
// a braille scatter plot of one coordinate pair, the reference ellipse of the
// target distribution, and the running mean, covariance and coverage errors.
//
// # Key Bindings
//
//	Space - Pause/Resume sampling
//	R     - Restart the stream from its seed
//	Tab   - Next coordinate pair
//	+/-   - Double/halve draws per frame
//	T     - Cycle color themes
//	?     - Show help
package viz
