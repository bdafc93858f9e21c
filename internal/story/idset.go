package story

import "sort"

// IDSet is a set of story ids.
type IDSet map[ID]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s IDSet) Add(id ID) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s IDSet) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Diff removes skipped ids from top. It returns the surviving ids in their
// original order and a new skip set holding exactly the ids removed this run,
// so skipped ids that dropped off the feed are forgotten.
func Diff(top []ID, skipped IDSet) (surviving []ID, stillSkipped IDSet) {
	surviving = make([]ID, 0, len(top))
	stillSkipped = make(IDSet)
	for _, id := range top {
		if skipped.Has(id) {
			stillSkipped.Add(id)
			continue
		}
		surviving = append(surviving, id)
	}
	return surviving, stillSkipped
}
