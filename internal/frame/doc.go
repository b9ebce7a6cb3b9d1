// Package frame holds the in-memory table used by the exchange-rate pipeline
// and the three operations the pipeline is built on:
//
//   - Loader.ReadFile parses a delimited file into a Table, turning an
//     unreadable path into a logged FileNotFound diagnostic and a nil result.
//   - FormatColumns rewrites column names with an ordered RenameMap.
//   - GetRollingWindow computes a trailing mean, leaving the first
//     window-1 positions undefined.
//
// Tables returned by Select, Filter, Without, Between and Clone are deep
// copies, so a segment can be modified without touching its parent.
package frame
