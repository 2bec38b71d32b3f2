package tier

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownTier = errors.New("unknown account tier")
)

// Policy is the per-tier capability bundle: which thumbnail heights get
// rendered, whether the original is exposed, and the bounds for expiring
// links. Values are validated once when the tier set is built, never at
// request time.
type Policy struct {
	Name            string
	ThumbnailSizes  []int
	ExposeOriginal  bool
	ExpiringLinks   bool
	MinLinkDuration int
	MaxLinkDuration int
}

// AllowsLinkDuration reports whether seconds falls inside the tier's
// inclusive [min, max] window.
func (p Policy) AllowsLinkDuration(seconds int) bool {
	return seconds >= p.MinLinkDuration && seconds <= p.MaxLinkDuration
}

// LinkTTL converts a validated duration into a time.Duration.
func (p Policy) LinkTTL(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func (p Policy) validate() error {
	if p.Name == "" {
		return errors.New("tier name required")
	}
	if len(p.ThumbnailSizes) == 0 {
		return fmt.Errorf("tier %s: at least one thumbnail size required", p.Name)
	}
	for _, size := range p.ThumbnailSizes {
		if size <= 0 {
			return fmt.Errorf("tier %s: thumbnail size %d must be positive", p.Name, size)
		}
	}
	if p.ExpiringLinks {
		if p.MinLinkDuration <= 0 {
			return fmt.Errorf("tier %s: min link duration must be positive", p.Name)
		}
		if p.MaxLinkDuration < p.MinLinkDuration {
			return fmt.Errorf("tier %s: max link duration %d below min %d",
				p.Name, p.MaxLinkDuration, p.MinLinkDuration)
		}
	}
	return nil
}

// Set is an immutable tier-name -> Policy lookup.
type Set struct {
	policies    map[string]Policy
	defaultTier string
}

// NewSet validates every policy and the default tier name.
func NewSet(policies []Policy, defaultTier string) (*Set, error) {
	if len(policies) == 0 {
		return nil, errors.New("no tiers configured")
	}

	byName := make(map[string]Policy, len(policies))
	for _, p := range policies {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate tier %s", p.Name)
		}
		byName[p.Name] = p
	}

	if _, ok := byName[defaultTier]; !ok {
		return nil, fmt.Errorf("default tier %s not configured", defaultTier)
	}

	return &Set{policies: byName, defaultTier: defaultTier}, nil
}

func (s *Set) Resolve(name string) (Policy, error) {
	p, ok := s.policies[name]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %s", ErrUnknownTier, name)
	}
	return p, nil
}

func (s *Set) Default() Policy {
	return s.policies[s.defaultTier]
}

func (s *Set) DefaultName() string {
	return s.defaultTier
}
