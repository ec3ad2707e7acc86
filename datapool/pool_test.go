package datapool

import (
	"errors"
	"testing"
)

func newTestPool(t *testing.T, capacity int) *Pool[int] {
	t.Helper()

	p, err := New[int](capacity)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	return p
}

func mustAcquire(t *testing.T, p *Pool[int], value int) ID {
	t.Helper()

	id, item, err := p.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	*item = value
	return id
}

func TestPool_ConcreteScenario(t *testing.T) {
	p := newTestPool(t, 3)

	id0 := mustAcquire(t, p, 10)
	id1 := mustAcquire(t, p, 11)
	id2 := mustAcquire(t, p, 12)
	if id0 != 0 || id1 != 1 || id2 != 2 {
		t.Fatalf("unexpected ids: got %d,%d,%d", id0, id1, id2)
	}

	if _, _, err := p.Acquire(); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}

	if err := p.Release(id1); err != nil {
		t.Fatalf("release: %v", err)
	}

	id, _, err := p.Acquire()
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if id != id1 {
		t.Fatalf("expected reuse id=%d, got %d", id1, id)
	}

	if got := p.Len(); got != 3 {
		t.Fatalf("expected Len=3, got %d", got)
	}
}

func TestPool_CapacityBound(t *testing.T) {
	const n = 64
	p := newTestPool(t, n)

	for i := 0; i < n; i++ {
		if _, _, err := p.Acquire(); err != nil {
			t.Fatalf("acquire #%d: %v", i, err)
		}
	}

	if _, _, err := p.Acquire(); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("acquire #%d: expected ErrPoolExhausted, got %v", n, err)
	}
	if p.HighWaterMark() != n {
		t.Fatalf("expected high-water mark %d, got %d", n, p.HighWaterMark())
	}
}

func TestPool_ZeroCapacity(t *testing.T) {
	p := newTestPool(t, 0)

	if _, _, err := p.Acquire(); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
	if p.Len() != 0 || p.Cap() != 0 {
		t.Fatalf("expected empty pool, got Len=%d Cap=%d", p.Len(), p.Cap())
	}
}

func TestPool_NegativeCapacity(t *testing.T) {
	_, err := New[int](-1)
	if !errors.Is(err, ErrAllocationFailure) {
		t.Fatalf("expected ErrAllocationFailure, got %v", err)
	}
}

func TestPool_HugeCapacity(t *testing.T) {
	type big [1 << 20]byte

	p, err := New[big](1 << 40)
	if !errors.Is(err, ErrAllocationFailure) {
		t.Fatalf("expected ErrAllocationFailure, got %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil pool on failure")
	}
}

func TestPool_ReuseLIFO(t *testing.T) {
	p := newTestPool(t, 8)

	id0 := mustAcquire(t, p, 0)
	id1 := mustAcquire(t, p, 1)
	id2 := mustAcquire(t, p, 2)

	// Free two slots; free-list is a stack (LIFO).
	p.Release(id1)
	p.Release(id0)

	if id, _, _ := p.Acquire(); id != id0 {
		t.Fatalf("expected reuse id=%d (LIFO), got %d", id0, id)
	}
	if id, _, _ := p.Acquire(); id != id1 {
		t.Fatalf("expected reuse id=%d (LIFO), got %d", id1, id)
	}

	// No free slots left, grows
	if id, _, _ := p.Acquire(); id != id2+1 {
		t.Fatalf("expected growth to id=%d, got %d", id2+1, id)
	}
}

func TestPool_ReuseUnblocksExhaustion(t *testing.T) {
	p := newTestPool(t, 4)
	for i := 0; i < 4; i++ {
		mustAcquire(t, p, i)
	}

	if err := p.Release(2); err != nil {
		t.Fatalf("release: %v", err)
	}

	id, _, err := p.Acquire()
	if err != nil {
		t.Fatalf("expected reuse when high-water mark equals capacity, got %v", err)
	}
	if id != 2 {
		t.Fatalf("expected id=2, got %d", id)
	}
}

func TestPool_ReuseKeepsStaleValue(t *testing.T) {
	p := newTestPool(t, 2)

	id := mustAcquire(t, p, 42)
	p.Release(id)

	reused, item, err := p.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if reused != id {
		t.Fatalf("expected reuse id=%d, got %d", id, reused)
	}
	if *item != 42 {
		t.Fatalf("expected stale value 42 on reuse, got %d", *item)
	}
}

func TestPool_DoubleRelease(t *testing.T) {
	p := newTestPool(t, 2)
	id := mustAcquire(t, p, 1)

	if err := p.Release(id); err != nil {
		t.Fatalf("first release: %v", err)
	}

	err := p.Release(id)
	if !errors.Is(err, ErrDoubleRelease) {
		t.Fatalf("expected ErrDoubleRelease, got %v", err)
	}
	if errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("double release must not be reported as invalid handle")
	}

	// the slot is in the free stack only once
	if p.FreeLen() != 1 {
		t.Fatalf("expected 1 free slot, got %d", p.FreeLen())
	}
}

func TestPool_InvalidHandle(t *testing.T) {
	p := newTestPool(t, 4)
	id := mustAcquire(t, p, 7)

	// id == high-water mark was never issued
	if err := p.Release(ID(p.HighWaterMark())); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("release at high-water mark: expected ErrInvalidHandle, got %v", err)
	}
	if err := p.Release(-1); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("release -1: expected ErrInvalidHandle, got %v", err)
	}
	if err := p.Release(99); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("release 99: expected ErrInvalidHandle, got %v", err)
	}

	if _, err := p.Get(3); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("get never issued: expected ErrInvalidHandle, got %v", err)
	}
	if _, err := p.Get(99); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("get out of range: expected ErrInvalidHandle, got %v", err)
	}

	p.Release(id)
	if _, err := p.Get(id); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("get free slot: expected ErrInvalidHandle, got %v", err)
	}

	// nothing changed
	if p.Len() != 0 || p.FreeLen() != 1 || p.HighWaterMark() != 1 {
		t.Fatalf("unexpected state Len=%d FreeLen=%d HighWaterMark=%d", p.Len(), p.FreeLen(), p.HighWaterMark())
	}
}

func TestPool_GetReturnsMutableElement(t *testing.T) {
	p := newTestPool(t, 2)
	id := mustAcquire(t, p, 1)

	item, err := p.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	*item = 100

	again, _ := p.Get(id)
	if *again != 100 {
		t.Fatalf("expected 100, got %d", *again)
	}
}

func TestPool_IsFree(t *testing.T) {
	p := newTestPool(t, 3)
	id0 := mustAcquire(t, p, 0)
	id1 := mustAcquire(t, p, 1)

	p.Release(id0)

	if !p.IsFree(id0) {
		t.Fatalf("expected id=%d free", id0)
	}
	if p.IsFree(id1) {
		t.Fatalf("expected id=%d occupied", id1)
	}
}

func TestPool_OccupiedCount(t *testing.T) {
	p := newTestPool(t, 16)

	ids := []ID{}
	for i := 0; i < 10; i++ {
		ids = append(ids, mustAcquire(t, p, i))
	}
	for _, id := range ids[:4] {
		if err := p.Release(id); err != nil {
			t.Fatalf("release %d: %v", id, err)
		}
	}

	if got := p.Len(); got != 10-4 {
		t.Fatalf("expected Len=%d, got %d", 10-4, got)
	}
	if got := p.HighWaterMark(); got != 10 {
		t.Fatalf("expected HighWaterMark=10, got %d", got)
	}
}

func TestPool_AllYieldsFreeSlots(t *testing.T) {
	p := newTestPool(t, 8)
	for i := 0; i < 5; i++ {
		mustAcquire(t, p, i*10)
	}
	p.Release(1)
	p.Release(3)

	visited := []ID{}
	for id, item := range p.All() {
		visited = append(visited, id)
		if int(id)*10 != *item {
			t.Fatalf("slot %d: expected %d, got %d", id, int(id)*10, *item)
		}
	}

	if len(visited) != p.HighWaterMark() {
		t.Fatalf("expected %d slots, got %d", p.HighWaterMark(), len(visited))
	}
	for i, id := range visited {
		if int(id) != i {
			t.Fatalf("expected index order, got %v", visited)
		}
	}

	// restartable and read only
	n := 0
	for range p.All() {
		n++
	}
	if n != 5 || p.Len() != 3 {
		t.Fatalf("second pass: n=%d Len=%d", n, p.Len())
	}
}

func TestPool_LiveSkipsFreeSlots(t *testing.T) {
	p := newTestPool(t, 8)
	for i := 0; i < 5; i++ {
		mustAcquire(t, p, i)
	}
	p.Release(0)
	p.Release(4)

	visited := []ID{}
	for id := range p.Live() {
		visited = append(visited, id)
	}

	if len(visited) != p.Len() {
		t.Fatalf("expected %d slots, got %d", p.Len(), len(visited))
	}
	if visited[0] != 1 || visited[len(visited)-1] != 3 {
		t.Fatalf("unexpected slots %v", visited)
	}
}

func TestPool_AllBreak(t *testing.T) {
	p := newTestPool(t, 8)
	for i := 0; i < 8; i++ {
		mustAcquire(t, p, i)
	}

	n := 0
	for range p.All() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("expected to stop after 3, got %d", n)
	}
}

func TestPool_String(t *testing.T) {
	p := newTestPool(t, 4)
	mustAcquire(t, p, 10)
	id := mustAcquire(t, p, 11)
	mustAcquire(t, p, 12)
	p.Release(id)

	if got, want := p.String(), "10 - 12"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	empty := newTestPool(t, 4)
	if got := empty.String(); got != "" {
		t.Fatalf("expected empty dump, got %q", got)
	}
}

func BenchmarkPool_AcquireRelease(b *testing.B) {
	p, _ := New[[64]byte](1024)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id, _, err := p.Acquire()
		if err != nil {
			b.Fatal(err)
		}
		p.Release(id)
	}
}

func BenchmarkPool_All(b *testing.B) {
	p, _ := New[int](10_000)
	for i := 0; i < p.Cap(); i++ {
		_, item, _ := p.Acquire()
		*item = i
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sum := 0
		for _, item := range p.All() {
			sum += *item
		}
		_ = sum
	}
}
