package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// cache backend without seeing each other's results.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lab-a:")
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

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(jobHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(jobHash, opts)
}
