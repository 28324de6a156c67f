package service

import "sync"

// UploadTracker counts in-flight uploads per upload session so that a
// submission referencing the session can be refused until they settle.
type UploadTracker struct {
	mu       sync.Mutex
	inflight map[string]int
}

// NewUploadTracker creates an empty tracker.
func NewUploadTracker() *UploadTracker {
	return &UploadTracker{inflight: make(map[string]int)}
}

// Begin marks one upload batch in flight for session and returns the
// function that ends it. The returned function is safe to call more than once.
func (t *UploadTracker) Begin(session string) (done func()) {
	if session == "" {
		return func() {}
	}
	t.mu.Lock()
	t.inflight[session]++
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.inflight[session] <= 1 {
				delete(t.inflight, session)
				return
			}
			t.inflight[session]--
		})
	}
}

// Pending reports whether session has uploads in flight.
func (t *UploadTracker) Pending(session string) bool {
	if session == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inflight[session] > 0
}
