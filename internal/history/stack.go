// Package history provides the LIFO stacks backing query back/forward
// navigation.
package history

// Stack is a last-in first-out sequence. The zero value is an empty stack.
type Stack[T any] struct {
	items []T
}

// Push appends v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top element. The boolean is false when the
// stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	last := len(s.items) - 1
	v := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return v, true
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// IsEmpty reports whether the stack has no elements.
func (s *Stack[T]) IsEmpty() bool { return len(s.items) == 0 }

// Len returns the number of elements.
func (s *Stack[T]) Len() int { return len(s.items) }

// Inspect returns a copy of the elements, most recently pushed first.
func (s *Stack[T]) Inspect() []T {
	out := make([]T, len(s.items))
	for i, v := range s.items {
		out[len(s.items)-1-i] = v
	}
	return out
}

// Clear empties the stack.
func (s *Stack[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}
