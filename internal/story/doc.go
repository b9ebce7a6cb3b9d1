// Package story assembles the euro exchange-rate narrative.
//
// The narrative is a fixed sequence of operations.Step values sharing a
// *State: load the rate history, normalize its headers, split it into the
// EUR-USD, EUR-BRL and USD-BRL series, draw the evolution and rolling-window
// charts, add the 30-day rolling mean, draw one chart per administration
// story and export the reports. A missing input file stops the run after the
// load step without failing it.
package story
