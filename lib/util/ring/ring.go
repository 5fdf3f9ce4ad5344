package ring

import (
	"errors"
	"fmt"
	"iter"
)

// MaxCapacity is the largest capacity MakeRing accepts.
const MaxCapacity = 1 << 30

var (
	ErrInvalidCapacity  = errors.New("ring: capacity out of range")
	ErrCapacityExceeded = errors.New("ring: capacity exceeded")
	ErrUnderflow        = errors.New("ring: underflow")
	ErrOutOfRange       = errors.New("ring: index out of range")
)

// Ring is a fixed capacity double-ended queue backed by a single buffer. Fullness is tracked by
// an explicit length, head and tail coincide when the ring is empty and when it is full.
//
// A Ring is not safe for concurrent use.
type Ring[T any] struct {
	buf []T
	// head is the first occupied cell, tail is the next cell PushBack writes to
	head   int
	tail   int
	length int
}

func MakeRing[T any](capacity int) (Ring[T], error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return Ring[T]{}, ErrInvalidCapacity
	}
	return Ring[T]{
		buf: make([]T, capacity),
	}, nil
}

func NewRing[T any](capacity int) (*Ring[T], error) {
	r, err := MakeRing[T](capacity)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Ring[T]) inc(i int) int {
	i++
	if i == len(r.buf) {
		i = 0
	}
	return i
}

func (r *Ring[T]) dec(i int) int {
	i--
	if i == -1 {
		i = len(r.buf) - 1
	}
	return i
}

func (r *Ring[T]) PushBack(value T) error {
	if r.Full() {
		return ErrCapacityExceeded
	}

	r.buf[r.tail] = value
	r.tail = r.inc(r.tail)
	r.length++
	return nil
}

func (r *Ring[T]) PushFront(value T) error {
	if r.Full() {
		return ErrCapacityExceeded
	}

	r.head = r.dec(r.head)
	r.buf[r.head] = value
	r.length++
	return nil
}

func (r *Ring[T]) PopBack() (T, error) {
	if r.length == 0 {
		return *new(T), ErrUnderflow
	}

	r.tail = r.dec(r.tail)
	back := r.buf[r.tail]
	r.buf[r.tail] = *new(T)
	r.length--
	return back, nil
}

func (r *Ring[T]) PopFront() (T, error) {
	if r.length == 0 {
		return *new(T), ErrUnderflow
	}

	front := r.buf[r.head]
	r.buf[r.head] = *new(T)
	r.head = r.inc(r.head)
	r.length--
	return front, nil
}

// Back returns the last element without removing it.
func (r *Ring[T]) Back() (T, error) {
	if r.length == 0 {
		return *new(T), ErrUnderflow
	}
	return r.buf[r.dec(r.tail)], nil
}

// Front returns the first element without removing it.
func (r *Ring[T]) Front() (T, error) {
	if r.length == 0 {
		return *new(T), ErrUnderflow
	}
	return r.buf[r.head], nil
}

// Get returns the n-th element counting from the front.
func (r *Ring[T]) Get(n int) (T, error) {
	if n < 0 || n >= r.length {
		return *new(T), ErrOutOfRange
	}
	ptr := r.head + n
	if ptr >= len(r.buf) {
		ptr -= len(r.buf)
	}
	return r.buf[ptr], nil
}

// Clear zeroes every cell and resets both cursors. Capacity is kept.
func (r *Ring[T]) Clear() {
	clear(r.buf)
	r.head = 0
	r.tail = 0
	r.length = 0
}

func (r *Ring[T]) Length() int {
	return r.length
}

func (r *Ring[T]) Capacity() int {
	return len(r.buf)
}

func (r *Ring[T]) Empty() bool {
	return r.length == 0
}

func (r *Ring[T]) Full() bool {
	return r.length == len(r.buf)
}

// All yields the occupied cells front to back along with their logical index.
func (r *Ring[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		ptr := r.head
		for i := 0; i < r.length; i++ {
			if !yield(i, r.buf[ptr]) {
				return
			}
			ptr = r.inc(ptr)
		}
	}
}

func (r *Ring[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range r.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice copies the contents front to back into a new slice.
func (r *Ring[T]) Slice() []T {
	out := make([]T, 0, r.length)
	for v := range r.Values() {
		out = append(out, v)
	}
	return out
}

func (r *Ring[T]) String() string {
	if r.length == 0 {
		return "[]"
	}
	front, _ := r.Front()
	back, _ := r.Back()
	return fmt.Sprintf("[%v, ..., %v]", front, back)
}

func (r *Ring[T]) GoString() string {
	return fmt.Sprintf("Ring: capacity=%d, length=%d", r.Capacity(), r.length)
}

var _ fmt.Stringer = (*Ring[int])(nil)
var _ fmt.GoStringer = (*Ring[int])(nil)
