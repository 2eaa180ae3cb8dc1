package directives

// DirectiveGroup is one recolor layer. Pairs are applied in order.
type DirectiveGroup []ColorPair

// DirectiveSet holds every recolor layer of a single channel.
type DirectiveSet []DirectiveGroup

// Clone returns a deep copy of s.
func (s DirectiveSet) Clone() DirectiveSet {
	if s == nil {
		return nil
	}
	out := make(DirectiveSet, len(s))
	for i, g := range s {
		out[i] = append(DirectiveGroup{}, g...)
	}
	return out
}

// Len is the total number of pairs across all groups.
func (s DirectiveSet) Len() int {
	n := 0
	for _, g := range s {
		n += len(g)
	}
	return n
}

// Sizes returns the number of pairs in each group.
func (s DirectiveSet) Sizes() []int {
	sizes := make([]int, len(s))
	for i, g := range s {
		sizes[i] = len(g)
	}
	return sizes
}

// Equal reports whether s and o have the same groups holding equal pairs.
func (s DirectiveSet) Equal(o DirectiveSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(o[i]) {
			return false
		}
		for j := range s[i] {
			if !s[i][j].Equal(o[i][j]) {
				return false
			}
		}
	}
	return true
}

// FlattenedView is the tabular projection of a DirectiveSet.
//
// Rows lists every pair in group-major order. Splits holds the cumulative
// row count at the end of each group, so groups of sizes [2,1,3] give
// [2,3,6]. Groups without pairs contribute no split.
type FlattenedView struct {
	Rows   []ColorPair
	Splits []int
}

// Flatten projects s into a FlattenedView.
func Flatten(s DirectiveSet) FlattenedView {
	v := FlattenedView{
		Rows:   make([]ColorPair, 0, s.Len()),
		Splits: make([]int, 0, len(s)),
	}
	for _, g := range s {
		if len(g) == 0 {
			continue
		}
		v.Rows = append(v.Rows, g...)
		v.Splits = append(v.Splits, len(v.Rows))
	}
	return v
}

// Regroup slices the rows of v at its split points. It is the inverse of
// Flatten for sets without empty groups.
func Regroup(v FlattenedView) DirectiveSet {
	out := make(DirectiveSet, 0, len(v.Splits))
	start := 0
	for _, end := range v.Splits {
		out = append(out, append(DirectiveGroup{}, v.Rows[start:end]...))
		start = end
	}
	return out
}

// Locate maps a row index to its group and the pair index within it.
func (v FlattenedView) Locate(row int) (group, index int, ok bool) {
	if row < 0 || row >= len(v.Rows) {
		return 0, 0, false
	}
	start := 0
	for i, end := range v.Splits {
		if row < end {
			return i, row - start, true
		}
		start = end
	}
	return 0, 0, false
}

// Clone returns a deep copy of v.
func (v FlattenedView) Clone() FlattenedView {
	return FlattenedView{
		Rows:   append([]ColorPair(nil), v.Rows...),
		Splits: append([]int(nil), v.Splits...),
	}
}
