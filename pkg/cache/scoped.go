package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis without colliding.
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ParkKey(opts ParkKeyOpts) string {
	return k.prefix + k.inner.ParkKey(opts)
}

func (k *ScopedKeyer) ArtifactKey(parkHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(parkHash, format)
}
