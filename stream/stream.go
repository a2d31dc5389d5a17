// Package stream provides channel-based push-stream operators.
//
// Every operator takes a context; producers stop and close their output as
// soon as the context is done, so a superseded pipeline drains promptly.
// Operators hold no shared mutable state.
package stream

import (
	"context"
	"sync"
)

// Send delivers v on ch unless ctx is done first. It reports whether v was sent.
func Send[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// FromSlice emits the elements of items in order.
func FromSlice[T any](ctx context.Context, items []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, v := range items {
			if !Send(ctx, out, v) {
				return
			}
		}
	}()
	return out
}

// Receive takes the next value from in unless ctx is done first. It
// reports false when in is closed or ctx is done.
func Receive[T any](ctx context.Context, in <-chan T) (T, bool) {
	select {
	case v, ok := <-in:
		return v, ok
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Map emits f(v) for every v received from in.
func Map[T, U any](ctx context.Context, in <-chan T, f func(T) U) <-chan U {
	out := make(chan U)
	go func() {
		defer close(out)
		for {
			v, ok := Receive(ctx, in)
			if !ok || !Send(ctx, out, f(v)) {
				return
			}
		}
	}()
	return out
}

// FlatMap calls f for every v received from in and forwards everything the
// returned streams emit. Inner streams run concurrently, so no order is
// defined between them.
func FlatMap[T, U any](ctx context.Context, in <-chan T, f func(T) <-chan U) <-chan U {
	out := make(chan U)
	go func() {
		defer close(out)
		var wg sync.WaitGroup
		for {
			v, ok := Receive(ctx, in)
			if !ok {
				break
			}
			inner := f(v)
			wg.Add(1)
			go func() {
				defer wg.Done()
				forward(ctx, inner, out)
			}()
		}
		wg.Wait()
	}()
	return out
}

// Merge interleaves the given streams in arrival order.
func Merge[T any](ctx context.Context, ins ...<-chan T) <-chan T {
	out := make(chan T)
	var wg sync.WaitGroup
	wg.Add(len(ins))
	for _, in := range ins {
		go func() {
			defer wg.Done()
			forward(ctx, in, out)
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Collect drains in into a slice.
func Collect[T any](in <-chan T) []T {
	var items []T
	for v := range in {
		items = append(items, v)
	}
	return items
}

// Closed returns a stream that is already closed.
func Closed[T any]() <-chan T {
	ch := make(chan T)
	close(ch)
	return ch
}

// forward copies in to out until in closes or ctx is done.
func forward[T any](ctx context.Context, in <-chan T, out chan<- T) {
	for {
		v, ok := Receive(ctx, in)
		if !ok || !Send(ctx, out, v) {
			return
		}
	}
}
