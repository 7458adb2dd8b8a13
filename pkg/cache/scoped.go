package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// deployments can share one redis database without seeing each other's
// layouts:
//
//	keyer := NewScopedKeyer(nil, "staging:")
//	keyer.LayoutKey(hash, opts) // "staging:layout:…"
//
// KeyType of a scoped key reports the scope, not the entry kind.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

func (k *ScopedKeyer) RenderKey(graphHash, variant string) string {
	return k.prefix + k.inner.RenderKey(graphHash, variant)
}
