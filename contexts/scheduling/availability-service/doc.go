// Package availabilityservice resolves hour-grid availability for the
// scheduling views: which cells are past, busy, or already selected, and how
// an interactive drag gesture normalizes into a candidate meeting slot.
//
// Classification is hour-granular on purpose; the grid is the interaction
// model, so finer-grained overlap checking buys nothing.
package availabilityservice
