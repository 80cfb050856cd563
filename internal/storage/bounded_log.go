package storage

// BoundedLog is a fixed-capacity ring buffer that drops its oldest entry
// when full. It is not safe for concurrent use.
type BoundedLog[T any] struct {
	items []T
	start int
	size  int
}

func NewBoundedLog[T any](capacity int) *BoundedLog[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &BoundedLog[T]{items: make([]T, capacity)}
}

func (l *BoundedLog[T]) Cap() int { return len(l.items) }

func (l *BoundedLog[T]) Len() int { return l.size }

// Append adds an item, evicting the oldest one if the log is full.
// It reports whether an eviction happened.
func (l *BoundedLog[T]) Append(item T) bool {
	capacity := len(l.items)
	if l.size < capacity {
		l.items[(l.start+l.size)%capacity] = item
		l.size++
		return false
	}
	l.items[l.start] = item
	l.start = (l.start + 1) % capacity
	return true
}

// Get returns a copy of the items, oldest first.
func (l *BoundedLog[T]) Get() []T {
	out := make([]T, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.items[(l.start+i)%len(l.items)]
	}
	return out
}

// Set replaces the contents, keeping only the newest Cap() items.
func (l *BoundedLog[T]) Set(items []T) {
	l.Reset()
	if over := len(items) - len(l.items); over > 0 {
		items = items[over:]
	}
	for _, item := range items {
		l.Append(item)
	}
}

// Reset empties the log
func (l *BoundedLog[T]) Reset() {
	var zero T
	for i := range l.items {
		l.items[i] = zero
	}
	l.start = 0
	l.size = 0
}
