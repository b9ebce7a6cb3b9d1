// Package charts renders the rate story as PNG figures.
//
// A Panel is a single time-series chart drawn with go-chart. A Figure lays
// panels out in rows under a title block and above a signature bar, the way
// the story presents one administration per panel and all of them together
// underneath. Panels that cannot be drawn (no data, a single observation)
// are replaced by a blank panel carrying their title, so a figure is always
// produced.
package charts
