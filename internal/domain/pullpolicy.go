package domain

import (
	"fmt"
	"strings"
	"time"
)

// CachedImage describes an image found in the local image store.
type CachedImage struct {
	ID       string
	RepoTags []string
	Created  time.Time
}

// PullPolicy decides whether an image is fetched before a container is created.
// cached is nil when no local image matches the reference.
type PullPolicy interface {
	ShouldPull(cached *CachedImage) bool
}

// PullPolicyFunc adapts a function to PullPolicy.
type PullPolicyFunc func(cached *CachedImage) bool

func (f PullPolicyFunc) ShouldPull(cached *CachedImage) bool { return f(cached) }

type pullNever struct{}

func (pullNever) ShouldPull(*CachedImage) bool { return false }
func (pullNever) String() string               { return "never" }

type pullMissing struct{}

func (pullMissing) ShouldPull(cached *CachedImage) bool { return cached == nil }
func (pullMissing) String() string                      { return "missing" }

type pullAlways struct{}

func (pullAlways) ShouldPull(*CachedImage) bool { return true }
func (pullAlways) String() string               { return "always" }

// Canonical pull policies.
var (
	// PullNever assumes images are managed out of band.
	PullNever PullPolicy = pullNever{}
	// PullMissing pulls only when no local image matches.
	PullMissing PullPolicy = pullMissing{}
	// PullAlways pulls before every creation.
	PullAlways PullPolicy = pullAlways{}
)

// ParsePullPolicy maps "never", "missing" and "always" to a canonical policy.
func ParsePullPolicy(raw string) (PullPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "never":
		return PullNever, nil
	case "", "missing":
		return PullMissing, nil
	case "always":
		return PullAlways, nil
	default:
		return nil, fmt.Errorf("unknown pull policy %q (want never, missing or always)", raw)
	}
}
