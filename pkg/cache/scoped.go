package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// generator version so that documents from older builds are never reused.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey returns the prefixed inner key.
func (k *ScopedKeyer) DocumentKey(format string, opts any) string {
	return k.prefix + k.inner.DocumentKey(format, opts)
}
