package prefstore

import "sync"

// writer is the single background goroutine that performs a store's disk
// operations. Jobs run one at a time in submission order, so two writes
// can never race on the backing file.
type writer struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []job
	gen     uint64
	running bool
	closed  bool
}

type job struct {
	run func()
	// cancellable jobs (write-throughs) are skipped if cancelPending
	// was called after they were enqueued
	cancellable bool
	gen         uint64
}

func newWriter() *writer {
	w := &writer{}
	w.cond = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

func (w *writer) loop() {
	w.mu.Lock()
	for {
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 {
			// closed and drained
			w.mu.Unlock()
			return
		}
		j := w.queue[0]
		w.queue = w.queue[1:]
		skip := j.cancellable && j.gen != w.gen
		w.running = true
		w.mu.Unlock()

		if !skip {
			j.run()
		}

		w.mu.Lock()
		w.running = false
		w.cond.Broadcast()
	}
}

// enqueue adds a job to the end of the queue. Returns false if the
// writer is closed and the job was not accepted.
func (w *writer) enqueue(cancellable bool, run func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.queue = append(w.queue, job{run: run, cancellable: cancellable, gen: w.gen})
	w.cond.Broadcast()
	return true
}

// cancelPending invalidates all cancellable jobs currently in the queue.
// A job that already started is not interrupted.
func (w *writer) cancelPending() {
	w.mu.Lock()
	w.gen++
	w.mu.Unlock()
}

// wait blocks until the queue is empty and no job is running
func (w *writer) wait() {
	w.mu.Lock()
	for len(w.queue) > 0 || w.running {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// close makes the goroutine exit after draining the queue
func (w *writer) close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		w.cond.Broadcast()
	}
	w.mu.Unlock()
}
