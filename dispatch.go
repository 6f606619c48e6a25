// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httplog

import "sync"

// entry is one line waiting in the async queue.
type entry struct {
	level Level
	line  string
}

// dispatcher moves lines off the request path. Submission never blocks:
// when the bounded queue is full the line is rejected and the caller reports
// the drop.
//
// Trade-offs:
//   - Latency: lines appear once the worker reaches them
//   - Durability: a crash loses whatever is still queued
//
// Thread-safe: submit, flush and close may be called from any goroutine.
type dispatcher struct {
	queue  chan entry
	write  func(entry)
	mu     sync.RWMutex // guards closed against close(queue)
	closed bool
	done   chan struct{}

	pendingMu sync.Mutex
	pending   int
	drained   *sync.Cond
}

func newDispatcher(size int, write func(entry)) *dispatcher {
	d := &dispatcher{
		queue: make(chan entry, size),
		write: write,
		done:  make(chan struct{}),
	}
	d.drained = sync.NewCond(&d.pendingMu)
	go d.run()
	return d
}

func (d *dispatcher) run() {
	defer close(d.done)
	for e := range d.queue {
		d.write(e)
		d.settle(-1)
	}
}

func (d *dispatcher) settle(delta int) {
	d.pendingMu.Lock()
	d.pending += delta
	if d.pending == 0 {
		d.drained.Broadcast()
	}
	d.pendingMu.Unlock()
}

// submit enqueues e. It returns ErrQueueFull or ErrClosed when e was not accepted.
func (d *dispatcher) submit(e entry) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	d.settle(1)
	select {
	case d.queue <- e:
		return nil
	default:
		d.settle(-1)
		return ErrQueueFull
	}
}

// flush blocks until every accepted line has been written.
func (d *dispatcher) flush() {
	d.pendingMu.Lock()
	for d.pending > 0 {
		d.drained.Wait()
	}
	d.pendingMu.Unlock()
}

// close stops accepting lines and waits for the queue to drain.
func (d *dispatcher) close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	<-d.done
}
