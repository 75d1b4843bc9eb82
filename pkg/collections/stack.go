package collections

type Stack[T any] struct {
	Items []T
}

func (s Stack[T]) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s Stack[T]) Len() int {
	return len(s.Items)
}

func (s *Stack[T]) Push(item T) {
	s.Items = append(s.Items, item)
}

// Pop removes and returns the top item. The zero value and false are returned
// when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.Items) == 0 {
		return zero, false
	}
	top := s.Items[len(s.Items)-1]
	s.Items[len(s.Items)-1] = zero
	s.Items = s.Items[:len(s.Items)-1]
	return top, true
}

func (s *Stack[T]) Top() *T {
	return &s.Items[len(s.Items)-1]
}
