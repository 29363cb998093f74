// Package editsync coalesces the high-frequency edit stream produced by
// interactive editing into the fewest writes needed: a trailing debounce
// window per resume, sending only the latest accumulated state.
package editsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"resume-vault/internal/resumes"
)

// DefaultDelay is the trailing debounce window: a send fires after this much
// caller inactivity.
const DefaultDelay = 500 * time.Millisecond

// ErrClosed is returned by Queue after the session has been closed.
var ErrClosed = errors.New("editsync: session closed")

// Updater is the slice of the mutation pipeline the coalescer writes through.
type Updater interface {
	Update(ctx context.Context, userID, id string, patch resumes.Patch) (resumes.Resume, error)
}

// Options tunes a Coalescer.
type Options struct {
	// Delay overrides DefaultDelay when positive.
	Delay time.Duration

	// OnUpdate observes accepted responses, at most once per store write and
	// only for the highest updated-at seen per resume; stale responses are
	// dropped. This is the local-cache update hook.
	OnUpdate func(resumes.Resume)

	// OnError observes failed sends. The failed patch is not retried; the
	// next edit opens a fresh window.
	OnError func(resumeID string, err error)
}

// Coalescer buffers edits per resume id for one editing session. Entries
// exist only while a resume has pending or in-flight work, so the map stays
// bounded by the session's active documents.
//
// Sends for the same resume are serialized: while one write is in flight,
// further edits only accumulate, and a follow-up window is armed when the
// response lands. A superseded window is never sent.
type Coalescer struct {
	ctx     context.Context
	updater Updater
	userID  string
	delay   time.Duration
	opts    Options

	mu       sync.Mutex
	entries  map[string]*entry
	lastSeen map[string]time.Time // highest updated-at observed per resume
	closing  bool
	draining int // active Flush calls; completions send follow-ups instead of re-arming
	wg       sync.WaitGroup
}

type entry struct {
	timer      *time.Timer
	pending    resumes.Patch
	hasPending bool
	inFlight   bool
}

// New constructs a Coalescer for one user's editing session. ctx bounds the
// lifetime of every send issued by the session.
func New(ctx context.Context, updater Updater, userID string, opts Options) *Coalescer {
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Coalescer{
		ctx:      ctx,
		updater:  updater,
		userID:   userID,
		delay:    delay,
		opts:     opts,
		entries:  make(map[string]*entry),
		lastSeen: make(map[string]time.Time),
	}
}

// Queue merges the patch into the resume's pending window and re-arms the
// debounce timer. Later fields supersede earlier ones; only the latest
// accumulated state is ever sent.
func (c *Coalescer) Queue(resumeID string, patch resumes.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing {
		return ErrClosed
	}
	e, ok := c.entries[resumeID]
	if !ok {
		e = &entry{}
		c.entries[resumeID] = e
	}
	e.pending = mergePatch(e.pending, patch)
	e.hasPending = true
	if e.inFlight {
		// The completion handler arms the next window.
		return nil
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(c.delay, func() { c.windowExpired(resumeID) })
	return nil
}

// Flush sends every pending window immediately and waits for all in-flight
// writes to finish, including follow-ups for edits that accumulated behind a
// write already in flight.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	c.draining++
	for id, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		if e.hasPending && !e.inFlight {
			c.startSendLocked(id, e)
		}
	}
	c.mu.Unlock()
	c.wg.Wait()

	c.mu.Lock()
	c.draining--
	c.mu.Unlock()
}

// Close drains pending edits and shuts the session down. Queue fails with
// ErrClosed afterwards.
func (c *Coalescer) Close() {
	c.mu.Lock()
	c.closing = true
	for id, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		if e.hasPending && !e.inFlight {
			c.startSendLocked(id, e)
		}
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Coalescer) windowExpired(resumeID string) {
	c.mu.Lock()
	e, ok := c.entries[resumeID]
	if !ok || e.inFlight || !e.hasPending {
		c.mu.Unlock()
		return
	}
	c.startSendLocked(resumeID, e)
	c.mu.Unlock()
}

// startSendLocked moves the pending patch into flight. Caller holds c.mu.
func (c *Coalescer) startSendLocked(resumeID string, e *entry) {
	patch := e.pending
	e.pending = resumes.Patch{}
	e.hasPending = false
	e.inFlight = true
	c.wg.Add(1)
	go c.send(resumeID, patch)
}

func (c *Coalescer) send(resumeID string, patch resumes.Patch) {
	r, err := c.updater.Update(c.ctx, c.userID, resumeID, patch)

	var deliver func()
	c.mu.Lock()
	e := c.entries[resumeID]
	if err != nil {
		if c.opts.OnError != nil {
			deliver = func() { c.opts.OnError(resumeID, err) }
		}
	} else if r.UpdatedAt.After(c.lastSeen[resumeID]) {
		c.lastSeen[resumeID] = r.UpdatedAt
		if c.opts.OnUpdate != nil {
			resp := r
			deliver = func() { c.opts.OnUpdate(resp) }
		}
	}
	if e != nil {
		e.inFlight = false
		switch {
		case e.hasPending && (c.closing || c.draining > 0):
			// Drain immediately; the wg.Add happens before this send's Done,
			// so the drainer's Wait covers the follow-up.
			c.startSendLocked(resumeID, e)
		case e.hasPending:
			e.timer = time.AfterFunc(c.delay, func() { c.windowExpired(resumeID) })
		default:
			delete(c.entries, resumeID)
		}
	}
	c.mu.Unlock()

	if deliver != nil {
		deliver()
	}
	c.wg.Done()
}

func mergePatch(dst, src resumes.Patch) resumes.Patch {
	if src.Title != nil {
		dst.Title = src.Title
	}
	if src.Slug != nil {
		dst.Slug = src.Slug
	}
	if src.Visibility != nil {
		dst.Visibility = src.Visibility
	}
	if src.Data != nil {
		dst.Data = src.Data
	}
	return dst
}
