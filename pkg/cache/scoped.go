package cache

// ScopedKeyer wraps a Keyer with a prefix so several configurations can
// share one cache directory without mixing entries.
//
// Example usage:
//
//	// Keys of the test fixtures never collide with real plans
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "fixtures:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(mode string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(mode, opts)
}

// PapersKey generates a prefixed paper list key.
func (k *ScopedKeyer) PapersKey(opts PapersKeyOpts) string {
	return k.prefix + k.inner.PapersKey(opts)
}
