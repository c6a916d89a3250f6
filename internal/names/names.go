package names

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// Built-in lists used when the caller passes no names.
var (
	Classic  = []string{"Alice", "Bob", "Charlie", "Diana", "Eve"}
	Extended = []string{"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Hank", "Ivy", "Jack"}
)

// Picker selects a uniformly random name
type Picker struct {
	mu       sync.Mutex
	rng      *rand.Rand
	defaults []string
}

// NewPicker creates a picker falling back to defaults. A nil rng uses a randomly seeded source.
func NewPicker(defaults []string, rng *rand.Rand) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Picker{rng: rng, defaults: slices.Clone(defaults)}
}

// Defaults returns a copy of the built-in list
func (p *Picker) Defaults() []string {
	return slices.Clone(p.defaults)
}

// Pick returns one element of names, or of the built-in list when names is empty.
// It returns "" only when both are empty.
func (p *Picker) Pick(names []string) string {
	if len(names) == 0 {
		names = p.defaults
	}
	if len(names) == 0 {
		return ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return names[p.rng.IntN(len(names))]
}
