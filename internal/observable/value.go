// Package observable holds state values that notify subscribers
// synchronously whenever they change.
package observable

// Value is a value holder plus a list of subscribers invoked in
// subscription order on every Set. It is not safe for concurrent use.
type Value[T any] struct {
	current T
	nextID  int
	subs    []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewValue creates a holder with an initial value.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.current
}

// Set replaces the value and notifies every subscriber before returning.
func (v *Value[T]) Set(next T) {
	v.current = next
	// Snapshot so subscribers may unsubscribe while being notified.
	subs := append([]subscriber[T](nil), v.subs...)
	for _, s := range subs {
		s.fn(next)
	}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of live subscribers.
func (v *Value[T]) Len() int {
	return len(v.subs)
}
