package entity

// Sequence hands out monotonically increasing identifiers.
// It is owned by whoever generates levels so that IDs stay unique
// across every level of a session without hidden global state.
type Sequence struct {
	next int
}

// NewSequence returns a sequence whose first identifier is start.
func NewSequence(start int) *Sequence {
	return &Sequence{next: start}
}

// Next returns the next identifier.
func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}

// Peek returns the identifier Next would return, without consuming it.
func (s *Sequence) Peek() int {
	return s.next
}

// Advance moves the sequence past id so it is never handed out again.
func (s *Sequence) Advance(id int) {
	if id >= s.next {
		s.next = id + 1
	}
}
