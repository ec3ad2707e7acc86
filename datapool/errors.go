package datapool

import "errors"

var (
	// ErrPoolExhausted is returned by Acquire when there is no free slot left
	// and the high-water mark already reached the capacity. It is an expected
	// condition: retry later, evict something or reject the new element.
	ErrPoolExhausted = errors.New("pool exhausted")

	// ErrInvalidHandle means the id was never issued or denotes a free slot.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrDoubleRelease means the slot was already free.
	ErrDoubleRelease = errors.New("double release")

	ErrNullCallback      = errors.New("update callback is nil")
	ErrAllocationFailure = errors.New("allocation failure")
)
