package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. The
// serve command uses it to keep design entries apart from anything else
// living in a shared Redis instance.
//
// Example usage:
//
//	// Keys isolated per customer
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "acct:42:")
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

// DesignKey generates a prefixed key for a complete design result.
func (k *ScopedKeyer) DesignKey(optionsHash string) string {
	return k.prefix + k.inner.DesignKey(optionsHash)
}

// ExportKey generates a prefixed key for an export artifact.
func (k *ScopedKeyer) ExportKey(designHash, format string) string {
	return k.prefix + k.inner.ExportKey(designHash, format)
}
