package deepequal

// Stats holds statistical metadata about a comparison
type Stats struct {
	Expected int `json:"expectedNodes"` // count of nodes visited in the expected tree
	Actual   int `json:"actualNodes"`   // count of nodes visited in the actual tree

	Values     int `json:"values,omitempty"`     // leaf values that didn't match
	Kinds      int `json:"kinds,omitempty"`      // nodes of different kinds
	Counts     int `json:"counts,omitempty"`     // nodes with different child counts
	Missing    int `json:"missing,omitempty"`    // expected children absent from actual
	Unexpected int `json:"unexpected,omitempty"` // actual children absent from expected
	Aliases    int `json:"aliases,omitempty"`    // inconsistent shared references
	Paths      int `json:"paths,omitempty"`      // nodes compared at different paths
}

// NodeChange returns a count of the shift between expected & actual trees
func (s Stats) NodeChange() int {
	return s.Actual - s.Expected
}

// Total is the number of differences counted
func (s Stats) Total() int {
	return s.Values + s.Kinds + s.Counts + s.Missing + s.Unexpected + s.Aliases + s.Paths
}

func (s *Stats) count(d *Difference) {
	switch d.Type {
	case DTValue:
		s.Values++
	case DTKind:
		s.Kinds++
	case DTCount:
		s.Counts++
	case DTMissing:
		s.Missing++
	case DTUnexpected:
		s.Unexpected++
	case DTAlias:
		s.Aliases++
	case DTPath:
		s.Paths++
	}
}
