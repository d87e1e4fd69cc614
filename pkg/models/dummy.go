package models

import (
	"context"
	"sync"
)

// DummyLLM is a scripted model for local testing without API calls. Replies
// are consumed in order; when the script runs out it repeats the last one.
type DummyLLM struct {
	mu      sync.Mutex
	replies []string
	next    int

	// Prompts records every prompt seen, for assertions.
	Prompts []string
}

func NewDummyLLM(replies ...string) *DummyLLM {
	if len(replies) == 0 {
		replies = []string{"(no scripted reply)"}
	}
	return &DummyLLM{replies: replies}
}

func (d *DummyLLM) Generate(_ context.Context, prompt string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Prompts = append(d.Prompts, prompt)
	reply := d.replies[d.next]
	if d.next < len(d.replies)-1 {
		d.next++
	}
	return reply, nil
}

var _ Agent = (*DummyLLM)(nil)
