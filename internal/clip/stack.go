package clip

import "github.com/gogpu/strokemesh/internal/geom"

// EquationStack tracks the active clip half-planes together with the
// snapshots saved by Push. Push and Pop pair 1:1 with a painter's save
// and restore.
type EquationStack struct {
	current []geom.Vec3
	entries [][]geom.Vec3
}

// NewEquationStack creates a stack whose current set is a copy of eqs.
func NewEquationStack(eqs []geom.Vec3) *EquationStack {
	return &EquationStack{
		current: append([]geom.Vec3(nil), eqs...),
		entries: make([][]geom.Vec3, 0, 8),
	}
}

// Current returns the active clip equations. The slice must not be
// modified by the caller.
func (s *EquationStack) Current() []geom.Vec3 {
	return s.current
}

// Set replaces the active clip equations with a copy of eqs.
func (s *EquationStack) Set(eqs []geom.Vec3) {
	s.current = append(s.current[:0:0], eqs...)
}

// Push saves the active equations.
func (s *EquationStack) Push() {
	s.entries = append(s.entries, s.current)
}

// Pop restores the equations saved by the matching Push. It reports false
// when the stack is empty.
func (s *EquationStack) Pop() bool {
	if len(s.entries) == 0 {
		return false
	}
	last := len(s.entries) - 1
	s.current = s.entries[last]
	s.entries[last] = nil
	s.entries = s.entries[:last]
	return true
}

// Depth returns the number of saved snapshots.
func (s *EquationStack) Depth() int {
	return len(s.entries)
}

// Reset drops every snapshot and installs eqs as the active set.
func (s *EquationStack) Reset(eqs []geom.Vec3) {
	for i := range s.entries {
		s.entries[i] = nil
	}
	s.entries = s.entries[:0]
	s.Set(eqs)
}
