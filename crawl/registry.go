package crawl

import "sync"

// JobKey identifies a crawl job by its (technology, version) pair.
type JobKey struct {
	TechnologyID string
	VersionID    string
}

// Registry tracks which (technology, version) pairs are actively crawling.
// It is an injected, lock-guarded service rather than a process-wide
// singleton so it can be constructed per engine instance and tested in
// isolation.
type Registry struct {
	mu     sync.Mutex
	active map[JobKey]bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[JobKey]bool)}
}

// Start marks a job as actively crawling.
func (r *Registry) Start(key JobKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[key] = true
}

// Stop flips a job's active flag. Returns false if the job was never
// registered.
func (r *Registry) Stop(key JobKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[key]; !ok {
		return false
	}
	r.active[key] = false
	return true
}

// StopAll flips every registered job to inactive and returns how many were
// active.
func (r *Registry) StopAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key, active := range r.active {
		if active {
			n++
		}
		r.active[key] = false
	}
	return n
}

// Active reports whether a job is currently marked as crawling.
func (r *Registry) Active(key JobKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[key]
}
