/*
Copyright © 2026 the surftrim authors.
This file is part of surftrim.

surftrim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

surftrim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with surftrim.  If not, see <http://www.gnu.org/licenses/>.
*/

package surftrim

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"
)

// defaultDebounceWait is the settle time before a preview request is
// dispatched.
const defaultDebounceWait = 150 * time.Millisecond

// A PreviewResult is the outcome of one dispatched preview computation.
type PreviewResult struct {
	Delete *Mesh
	Keep   *Mesh
	Err    error
}

// A Dispatcher funnels high-frequency preview requests (hover movement,
// live parameter edits) into the planner with debounced, most-recent-wins
// semantics: a burst of requests collapses into one computation for the
// last request, and starting a computation cancels any still in flight.
// Stale results are discarded, never delivered.
type Dispatcher struct {
	planner *Planner
	results chan PreviewResult
	log     logrus.FieldLogger

	debounced func(func())

	mu      sync.Mutex
	pending TrimRequest
	cancel  context.CancelFunc
	gen     int // increments per dispatch; stale generations stay silent
	closed  bool
}

// NewDispatcher returns a dispatcher delivering results for p on the
// Results channel. A non-positive wait selects the default settle time.
func NewDispatcher(p *Planner, wait time.Duration) *Dispatcher {
	if wait <= 0 {
		wait = defaultDebounceWait
	}
	return &Dispatcher{
		planner:   p,
		results:   make(chan PreviewResult, 1),
		log:       p.log,
		debounced: debounce.New(wait),
	}
}

// Results delivers the outcome of the most recent surviving request. The
// channel has capacity one and undelivered stale results are replaced, so
// a slow consumer only ever sees the newest preview.
func (d *Dispatcher) Results() <-chan PreviewResult {
	return d.results
}

// Request schedules a preview for req. Requests arriving within the settle
// window replace one another; only the last is computed.
func (d *Dispatcher) Request(req TrimRequest) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = req
	d.mu.Unlock()

	d.debounced(d.dispatch)
}

// dispatch cancels any in-flight computation and starts one for the most
// recently requested inputs.
func (d *Dispatcher) dispatch() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.gen++
	gen := d.gen
	req := d.pending
	d.mu.Unlock()

	go func() {
		deleteMesh, keepMesh, err := d.planner.PreviewRegions(ctx, req)

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed || gen != d.gen || ctx.Err() != nil {
			d.log.WithField("generation", gen).Debug("stale preview discarded")
			return
		}
		// Replace an undelivered older result rather than blocking.
		select {
		case <-d.results:
		default:
		}
		d.results <- PreviewResult{Delete: deleteMesh, Keep: keepMesh, Err: err}
	}()
}

// Close stops the dispatcher, cancels any in-flight computation, and
// closes the results channel. Requests after Close are ignored.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()
	close(d.results)
}
