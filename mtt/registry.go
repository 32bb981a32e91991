package mtt

import "github.com/cwbudde/algo-trackplan/model"

// Loader produces a machine-code-to-profile table to seed a Registry,
// e.g. from a config file or embedded catalogue. It replaces the
// legacy static `MTT_TYPES` map (§9 Design Notes).
type Loader func() (map[string]model.MTTProfile, error)

// Registry is an immutable, concurrency-safe table of MTT profiles
// keyed by machine code. Once built it is never mutated, so it may be
// shared lock-free across concurrent pipeline invocations (§5).
type Registry struct {
	profiles map[string]model.MTTProfile
}

// NewRegistry validates every profile and builds an immutable
// Registry from an in-memory table.
func NewRegistry(profiles map[string]model.MTTProfile) (*Registry, error) {
	table := make(map[string]model.MTTProfile, len(profiles))
	for code, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, model.WithStage(err, stage)
		}
		table[code] = p
	}
	return &Registry{profiles: table}, nil
}

// NewRegistryFromLoader builds a Registry from an injected Loader,
// validating every returned profile.
func NewRegistryFromLoader(load Loader) (*Registry, error) {
	profiles, err := load()
	if err != nil {
		return nil, model.WithStage(err, stage)
	}
	return NewRegistry(profiles)
}

// Profile returns the profile registered under code.
func (r *Registry) Profile(code string) (model.MTTProfile, bool) {
	p, ok := r.profiles[code]
	return p, ok
}

// Codes returns every machine code registered, in no particular order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.profiles))
	for code := range r.profiles {
		codes = append(codes, code)
	}
	return codes
}
