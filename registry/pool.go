package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	"github.com/fulldump/dpool/datapool"
)

// ErrStaleHandle is returned when the slot exists but belongs to another
// acquisition than the one the caller refers to.
var ErrStaleHandle = fmt.Errorf("stale handle: %w", datapool.ErrInvalidHandle)

var ErrInvalidPayload = errors.New("payload is not valid JSON")

// Entity is the element stored in every slot.
type Entity struct {
	Uuid    string
	Payload jsontext.Value
	Age     time.Duration
}

func (e Entity) String() string {
	return string(e.Payload)
}

type Options struct {
	Capacity int
	TTL      time.Duration // zero means entities never expire
}

// Slot is a copy of one slot, safe to use after the pool lock is released.
type Slot struct {
	Id      datapool.ID
	Uuid    string
	Free    bool
	Payload jsontext.Value
	Age     time.Duration
}

type Stats struct {
	Name          string
	Capacity      int
	HighWaterMark int
	Occupied      int
	Free          int
	TTL           time.Duration
	Revision      int64
	Ticks         int64
	Expired       int64
}

// Pool makes a datapool.Manager safe for concurrent use: every method holds
// the pool mutex for its whole duration.
type Pool struct {
	Name    string
	Options Options

	mutex   sync.Mutex
	manager *datapool.Manager[Entity]

	revision int64
	ticks    int64
	expired  int64
}

func NewPool(name string, options Options) (*Pool, error) {

	p := &Pool{
		Name:    name,
		Options: options,
	}

	manager, err := datapool.NewManager[Entity](options.Capacity, p.tick)
	if err != nil {
		return nil, err
	}
	manager.Subscribe(func(m *datapool.Manager[Entity]) {
		p.revision++
	})
	p.manager = manager

	return p, nil
}

// tick ages live entities and expires the ones that reached the TTL.
func (p *Pool) tick(delta time.Duration, m *datapool.Manager[Entity]) {

	pool := m.Pool()

	expired := []datapool.ID{}
	for id, e := range pool.Live() {
		e.Age += delta
		if p.Options.TTL > 0 && e.Age >= p.Options.TTL {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		if err := pool.Release(id); err != nil {
			panic(err)
		}
	}

	p.ticks++
	p.expired += int64(len(expired))
	m.Notify()
}

func (p *Pool) Acquire(payload jsontext.Value) (Slot, error) {

	payload, err := compact(payload)
	if err != nil {
		return Slot{}, err
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	id, e, err := p.manager.Pool().Acquire()
	if err != nil {
		return Slot{}, err
	}

	// reused slots keep the previous entity, overwrite everything
	*e = Entity{
		Uuid:    uuid.New().String(),
		Payload: payload,
	}
	p.manager.Notify()

	return newSlot(id, e, false), nil
}

// Release frees the slot. If uuid is not empty it must match the entity
// currently stored in the slot.
func (p *Pool) Release(id datapool.ID, uuid string) (Slot, error) {

	p.mutex.Lock()
	defer p.mutex.Unlock()

	pool := p.manager.Pool()

	e, err := pool.Get(id)
	if err == nil && uuid != "" && uuid != e.Uuid {
		return Slot{}, fmt.Errorf("%w: %d", ErrStaleHandle, id)
	}

	err = pool.Release(id)
	if err != nil {
		return Slot{}, err
	}
	p.manager.Notify()

	// released entities are not reset, e still holds the last value
	return newSlot(id, e, false), nil
}

func (p *Pool) Get(id datapool.ID, uuid string) (Slot, error) {

	p.mutex.Lock()
	defer p.mutex.Unlock()

	e, err := p.lookup(id, uuid)
	if err != nil {
		return Slot{}, err
	}

	return newSlot(id, e, false), nil
}

// Modify calls f with the current payload and stores the returned one.
func (p *Pool) Modify(id datapool.ID, uuid string, f func(payload []byte) ([]byte, error)) (Slot, error) {

	p.mutex.Lock()
	defer p.mutex.Unlock()

	e, err := p.lookup(id, uuid)
	if err != nil {
		return Slot{}, err
	}

	modified, err := f(e.Payload.Clone())
	if err != nil {
		return Slot{}, err
	}
	payload, err := compact(modified)
	if err != nil {
		return Slot{}, err
	}

	e.Payload = payload
	p.manager.Notify()

	return newSlot(id, e, false), nil
}

// Traverse visits every slot below the high-water mark, free ones included.
// Free slots are reported without payload.
func (p *Pool) Traverse(f func(slot Slot) bool) {

	p.mutex.Lock()
	defer p.mutex.Unlock()

	pool := p.manager.Pool()
	for id, e := range pool.All() {
		if !f(newSlot(id, e, pool.IsFree(id))) {
			return
		}
	}
}

// Live visits occupied slots only.
func (p *Pool) Live(f func(slot Slot) bool) {

	p.mutex.Lock()
	defer p.mutex.Unlock()

	for id, e := range p.manager.Pool().Live() {
		if !f(newSlot(id, e, false)) {
			return
		}
	}
}

func (p *Pool) Update(delta time.Duration) error {

	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.manager.Update(delta)
}

func (p *Pool) Stats() Stats {

	p.mutex.Lock()
	defer p.mutex.Unlock()

	pool := p.manager.Pool()
	return Stats{
		Name:          p.Name,
		Capacity:      pool.Cap(),
		HighWaterMark: pool.HighWaterMark(),
		Occupied:      pool.Len(),
		Free:          pool.FreeLen(),
		TTL:           p.Options.TTL,
		Revision:      p.revision,
		Ticks:         p.ticks,
		Expired:       p.expired,
	}
}

func (p *Pool) Dump() string {

	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.manager.Pool().String()
}

func (p *Pool) lookup(id datapool.ID, uuid string) (*Entity, error) {

	e, err := p.manager.Pool().Get(id)
	if err != nil {
		return nil, err
	}
	if uuid != "" && uuid != e.Uuid {
		return nil, fmt.Errorf("%w: %d", ErrStaleHandle, id)
	}

	return e, nil
}

func compact(payload []byte) (jsontext.Value, error) {

	v := jsontext.Value(payload).Clone()
	if err := v.Compact(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err.Error())
	}

	return v, nil
}

func newSlot(id datapool.ID, e *Entity, free bool) Slot {

	if free {
		return Slot{Id: id, Free: true}
	}

	return Slot{
		Id:      id,
		Uuid:    e.Uuid,
		Payload: e.Payload.Clone(),
		Age:     e.Age,
	}
}
