package service

import (
	"fmt"
	"strconv"
	"sync"
)

// ProgressCounter tracks terminal task completions across concurrently
// running tasks. Every access goes through the mutex so readers never
// observe a half-applied increment; failed never exceeds completed.
type ProgressCounter struct {
	mu        sync.Mutex
	completed int
	failed    int
	total     int
	hasTotal  bool
}

// NewProgressCounter creates a counter that reports progress against a
// declared total.
func NewProgressCounter(total int) *ProgressCounter {
	return &ProgressCounter{total: total, hasTotal: true}
}

// NewCounter creates a counter without a declared total; Status reports
// the raw completion count.
func NewCounter() *ProgressCounter {
	return &ProgressCounter{}
}

// MarkComplete records one terminal task outcome. It is called exactly
// once per task, never on a retry attempt.
func (p *ProgressCounter) MarkComplete(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	if !success {
		p.failed++
	}
}

func (p *ProgressCounter) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasTotal {
		return fmt.Sprintf("%d/%d", p.completed, p.total)
	}
	return strconv.Itoa(p.completed)
}

func (p *ProgressCounter) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

func (p *ProgressCounter) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}
