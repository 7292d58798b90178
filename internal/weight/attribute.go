package weight

import "github.com/hayato-n8810/jelly-graph/internal/jelly"

// contains reports whether the function range textually contains the
// call range. Containment is line-level only: the dump's column data is
// unreliable across multi-line constructs, so columns are ignored here
// on purpose.
func contains(call, fn jelly.Location) bool {
	return call.File == fn.File &&
		fn.StartRow <= call.StartRow &&
		call.EndRow <= fn.EndRow
}

// Attribute resolves the function that owns a call site. Only functions
// in the call's file are candidates; among the functions containing the
// call, the narrowest wins, ordered by row span then column span. Exact
// span ties fall back to the smallest function id so attribution stays
// deterministic. The second result is false when no function contains
// the call, e.g. a call in top-level module code.
func Attribute(call jelly.Location, functions map[jelly.FunctionID]jelly.Location) (jelly.FunctionID, bool) {
	var best jelly.FunctionID
	var bestLoc jelly.Location
	found := false

	for id, loc := range functions {
		if !contains(call, loc) {
			continue
		}
		if !found || narrower(loc, bestLoc) || (sameSpan(loc, bestLoc) && id < best) {
			best = id
			bestLoc = loc
			found = true
		}
	}

	return best, found
}

// narrower orders ranges by (row span, col span) lexicographically.
func narrower(a, b jelly.Location) bool {
	if a.RowSpan() != b.RowSpan() {
		return a.RowSpan() < b.RowSpan()
	}
	return a.ColSpan() < b.ColSpan()
}

func sameSpan(a, b jelly.Location) bool {
	return a.RowSpan() == b.RowSpan() && a.ColSpan() == b.ColSpan()
}
