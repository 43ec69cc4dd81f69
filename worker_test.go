package prefstore

import (
	"fmt"
	"sync"
	"testing"
)

func TestWriterRunsJobsInOrder(t *testing.T) {
	w := newWriter()
	defer w.close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		w.enqueue(false, func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	w.wait()

	assertTrue(t, len(got) == 100, fmt.Sprintf("expected 100 jobs to run, got %d", len(got)))
	for i, v := range got {
		assertTrue(t, v == i, fmt.Sprintf("job %d ran out of order (got %d)", i, v))
	}
}

func TestWriterCancelPending(t *testing.T) {
	w := newWriter()
	defer w.close()

	var mu sync.Mutex
	ran := map[string]bool{}
	mark := func(name string) func() {
		return func() {
			mu.Lock()
			ran[name] = true
			mu.Unlock()
		}
	}

	// hold the worker so jobs pile up in the queue
	release := make(chan struct{})
	w.enqueue(false, func() {
		<-release
	})
	w.enqueue(true, mark("cancellable"))
	w.enqueue(false, mark("plain"))
	w.cancelPending()
	w.enqueue(true, mark("after"))
	close(release)
	w.wait()

	assertTrue(t, !ran["cancellable"], "expected pending cancellable job to be skipped")
	assertTrue(t, ran["plain"], "expected non-cancellable job to run")
	assertTrue(t, ran["after"], "expected job enqueued after cancelPending to run")
}

func TestWriterCloseDrains(t *testing.T) {
	w := newWriter()
	n := 0
	for i := 0; i < 10; i++ {
		w.enqueue(false, func() {
			n++
		})
	}
	w.close()
	w.wait()
	assertTrue(t, n == 10, fmt.Sprintf("expected queued jobs to drain on close, ran %d", n))

	// enqueue after close is a no-op
	w.enqueue(false, func() {
		n++
	})
	w.wait()
	assertTrue(t, n == 10, "expected enqueue after close to be ignored")
}
