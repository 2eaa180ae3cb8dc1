package directives

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned for a row index outside [0, RowCount).
	ErrOutOfRange = errors.New("row out of range")
	// ErrEmptyDirectiveSet is returned by structural operations on a set
	// with no groups.
	ErrEmptyDirectiveSet = errors.New("directive set has no groups")
)

// Field selects one side of a ColorPair.
type Field int

const (
	From Field = iota
	To
)

func (f Field) String() string {
	switch f {
	case From:
		return "from"
	case To:
		return "to"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField accepts "from"/"to" and the column numbers 0/1.
func ParseField(s string) (Field, error) {
	switch s {
	case "from", "From", "0":
		return From, nil
	case "to", "To", "1":
		return To, nil
	}
	return 0, fmt.Errorf("unknown field %q (want from or to)", s)
}

// Store owns the DirectiveSet of one channel and its flattened view.
//
// The nested set is authoritative. The view is recomputed from it after
// every mutation made through the Store. SetRow edits the view alone;
// GetColors folds such edits back into the nested set.
//
// A Store is not safe for concurrent use.
type Store struct {
	set      DirectiveSet
	view     FlattenedView
	modified bool
}

// NewStore builds a Store from an already decoded set. Values are kept
// as given; malformed colors are not rejected here.
func NewStore(set DirectiveSet) *Store {
	s := &Store{set: set.Clone()}
	if s.set == nil {
		s.set = DirectiveSet{}
	}
	s.refresh()
	return s
}

func (s *Store) refresh() {
	s.view = Flatten(s.set)
}

// Flatten returns a copy of the current view.
func (s *Store) Flatten() FlattenedView {
	return s.view.Clone()
}

// RowCount is the number of rows in the current view.
func (s *Store) RowCount() int {
	return len(s.view.Rows)
}

// Groups returns a copy of the nested set.
func (s *Store) Groups() DirectiveSet {
	return s.set.Clone()
}

// Empty reports whether the set has no groups at all.
func (s *Store) Empty() bool {
	return len(s.set) == 0
}

// Modified reports whether any mutation has succeeded since NewStore.
func (s *Store) Modified() bool {
	return s.modified
}

// AddDefaultPair inserts ffffff=ffffff as the first pair of the first
// group.
func (s *Store) AddDefaultPair() error {
	if len(s.set) == 0 {
		return ErrEmptyDirectiveSet
	}
	first := make(DirectiveGroup, 0, len(s.set[0])+1)
	first = append(first, ColorPair{From: DefaultColor, To: DefaultColor})
	s.set[0] = append(first, s.set[0]...)
	s.modified = true
	s.refresh()
	return nil
}

// RemoveByValue removes the first pair equal to (from, to), scanning
// groups in order and pairs within each group in order. Removal is by
// content, so a duplicate in a later group survives even if it was the
// row the user selected. A missing pair is not an error.
func (s *Store) RemoveByValue(from, to ColorHex) {
	target := ColorPair{From: from, To: to}
	for gi, g := range s.set {
		for pi, p := range g {
			if !p.Equal(target) {
				continue
			}
			s.set[gi] = append(g[:pi:pi], g[pi+1:]...)
			s.modified = true
			s.refresh()
			return
		}
	}
}

// RemoveAt removes the pair displayed at row by value, reading the pair
// from the current view first.
func (s *Store) RemoveAt(row int) error {
	p, err := s.Row(row)
	if err != nil {
		return err
	}
	s.RemoveByValue(p.From, p.To)
	return nil
}

// Row returns the pair displayed at row.
func (s *Store) Row(row int) (ColorPair, error) {
	if row < 0 || row >= len(s.view.Rows) {
		return ColorPair{}, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, row, len(s.view.Rows))
	}
	return s.view.Rows[row], nil
}

// Locate resolves row to an index into Groups() and the pair index
// within that group.
func (s *Store) Locate(row int) (group, index int, err error) {
	k, index, ok := s.view.Locate(row)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, row, len(s.view.Rows))
	}
	// The view skips empty groups; map the k-th populated group back to
	// its position in the nested set.
	for gi, g := range s.set {
		if len(g) == 0 {
			continue
		}
		if k == 0 {
			return gi, index, nil
		}
		k--
	}
	return 0, 0, fmt.Errorf("%w: %d", ErrOutOfRange, row)
}

// EditPairAt overwrites one side of the pair at row with the normalized
// color. The edit is written into the nested set.
func (s *Store) EditPairAt(row int, color ColorHex, field Field) error {
	gi, pi, err := s.Locate(row)
	if err != nil {
		return err
	}
	c := color.Normalize()
	switch field {
	case From:
		s.set[gi][pi].From = c
	case To:
		s.set[gi][pi].To = c
	default:
		return fmt.Errorf("edit row %d: unknown field %v", row, field)
	}
	s.modified = true
	s.refresh()
	return nil
}

// SetRow replaces the pair at row in the flat view only, the way a table
// widget edits a cell in place. GetColors must be called before the next
// structural operation.
func (s *Store) SetRow(row int, p ColorPair) error {
	if row < 0 || row >= len(s.view.Rows) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, row, len(s.view.Rows))
	}
	s.view.Rows[row] = p.Normalize()
	s.modified = true
	return nil
}

// GetColors rebuilds the nested set from the flat rows and split points,
// adopts it as the authoritative set and returns a copy.
func (s *Store) GetColors() DirectiveSet {
	s.set = Regroup(s.view)
	s.refresh()
	return s.set.Clone()
}
