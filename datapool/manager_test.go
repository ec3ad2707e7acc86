package datapool

import (
	"errors"
	"testing"
	"time"

	. "github.com/fulldump/biff"
)

type particle struct {
	X, V float64
}

func TestManager_Update(t *testing.T) {

	move := func(delta time.Duration, m *Manager[particle]) {
		for _, p := range m.Pool().Live() {
			p.X += p.V * delta.Seconds()
		}
	}

	m, err := NewManager[particle](4, move)
	AssertNil(err)

	id, p, err := m.Pool().Acquire()
	AssertNil(err)
	*p = particle{X: 1, V: 2}

	AssertNil(m.Update(500 * time.Millisecond))
	AssertNil(m.Update(500 * time.Millisecond))

	got, err := m.Pool().Get(id)
	AssertNil(err)
	AssertEqual(got.X, 3.0)
}

func TestManager_NullCallback(t *testing.T) {

	m, err := NewManager[int](1, nil)
	AssertNil(err)

	err = m.Update(time.Second)
	AssertTrue(errors.Is(err, ErrNullCallback))
}

func TestManager_AllocationFailure(t *testing.T) {

	m, err := NewManager[int](-5, nil)
	AssertNil(m)
	AssertTrue(errors.Is(err, ErrAllocationFailure))
}

func TestManager_Notify(t *testing.T) {

	m, _ := NewManager[int](2, nil)

	// no subscribers, no effect
	m.Notify()

	calls := []string{}
	m.Subscribe(func(m *Manager[int]) {
		calls = append(calls, "first")
	})
	m.Subscribe(func(m *Manager[int]) {
		calls = append(calls, "second")
	})

	m.Notify()
	AssertEqual(calls, []string{"first", "second"})
}

func TestManager_UpdateCanReleaseAndNotify(t *testing.T) {

	notified := 0
	expire := func(delta time.Duration, m *Manager[int]) {
		expired := []ID{}
		for id, ttl := range m.Pool().Live() {
			*ttl -= int(delta / time.Second)
			if *ttl <= 0 {
				expired = append(expired, id)
			}
		}
		for _, id := range expired {
			m.Pool().Release(id)
		}
		m.Notify()
	}

	m, _ := NewManager[int](3, expire)
	m.Subscribe(func(m *Manager[int]) {
		notified++
	})

	for _, ttl := range []int{1, 2, 3} {
		_, item, _ := m.Pool().Acquire()
		*item = ttl
	}

	AssertNil(m.Update(time.Second))
	AssertEqual(m.Pool().Len(), 2)
	AssertNil(m.Update(time.Second))
	AssertEqual(m.Pool().Len(), 1)
	AssertEqual(notified, 2)
}
