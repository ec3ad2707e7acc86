package datapool

import "time"

// UpdateFunc is called once per tick with the time elapsed since the
// previous one.
type UpdateFunc[T any] func(delta time.Duration, m *Manager[T])

// Manager owns a Pool and the routine that updates its elements.
type Manager[T any] struct {
	pool        *Pool[T]
	update      UpdateFunc[T]
	subscribers []func(m *Manager[T])
}

func NewManager[T any](capacity int, update UpdateFunc[T]) (*Manager[T], error) {
	pool, err := New[T](capacity)
	if err != nil {
		return nil, err
	}

	return &Manager[T]{
		pool:   pool,
		update: update,
	}, nil
}

func (m *Manager[T]) Pool() *Pool[T] {
	return m.pool
}

// Update runs the update routine. It fails with ErrNullCallback when the
// manager was built without one.
func (m *Manager[T]) Update(delta time.Duration) error {
	if m.update == nil {
		return ErrNullCallback
	}

	m.update(delta, m)
	return nil
}

// Subscribe registers f to be called on every Notify.
func (m *Manager[T]) Subscribe(f func(m *Manager[T])) {
	m.subscribers = append(m.subscribers, f)
}

// Notify calls the subscribers in the order they subscribed. Without
// subscribers it does nothing.
func (m *Manager[T]) Notify() {
	for _, f := range m.subscribers {
		f(m)
	}
}
