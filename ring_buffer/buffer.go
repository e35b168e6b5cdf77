package ring_buffer

// Buffer is a FIFO ring that grows instead of overwriting, so a slow reader
// never loses items.
type Buffer[T any] struct {
	buffer []T
	head   int
	size   int
}

func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &Buffer[T]{
		buffer: make([]T, capacity),
	}
}

func (r *Buffer[T]) Add(items ...T) {
	for _, item := range items {
		if r.size == len(r.buffer) {
			r.grow()
		}

		r.buffer[(r.head+r.size)%len(r.buffer)] = item
		r.size++
	}
}

// Read returns the buffered items in insertion order without removing them.
func (r *Buffer[T]) Read() []T {
	items := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		items[i] = r.buffer[(r.head+i)%len(r.buffer)]
	}
	return items
}

// Drain returns the buffered items in insertion order and empties the buffer.
func (r *Buffer[T]) Drain() []T {
	items := r.Read()
	r.Clear()
	return items
}

func (r *Buffer[T]) Len() int {
	return r.size
}

func (r *Buffer[T]) Clear() {
	var zero T
	for i := 0; i < len(r.buffer); i++ {
		r.buffer[i] = zero
	}
	r.head = 0
	r.size = 0
}

func (r *Buffer[T]) grow() {
	grown := make([]T, len(r.buffer)*2)
	copy(grown, r.Read())
	r.buffer = grown
	r.head = 0
}
