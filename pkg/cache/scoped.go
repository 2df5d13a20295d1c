package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces when
// several sites share one Redis instance.
//
// Example usage:
//
//	keyer := cache.NewScopedKeyer(nil, "site:docs:")
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

// RenderKey generates a prefixed key for a rendered fragment.
func (k *ScopedKeyer) RenderKey(kind, content, options, theme string) string {
	return k.prefix + k.inner.RenderKey(kind, content, options, theme)
}
