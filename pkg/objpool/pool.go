// Package objpool wraps sync.Pool with a typed API for values that can be
// reset between uses, such as hash.Hash.
package objpool

import "sync"

type Resettable interface {
	Reset()
}

type Pool[T Resettable] struct {
	internal sync.Pool
}

func New[T Resettable](newFunc func() T) *Pool[T] {
	return &Pool[T]{internal: sync.Pool{
		New: func() any { return newFunc() },
	}}
}

// Get returns a value in its reset state.
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

func (p *Pool[T]) Put(obj T) {
	obj.Reset()
	p.internal.Put(obj)
}

// With borrows a value for the duration of fn.
func (p *Pool[T]) With(fn func(T)) {
	obj := p.Get()
	defer p.Put(obj)
	fn(obj)
}
