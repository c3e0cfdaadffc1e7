package cache

// ScopedKeyer prefixes every key of an inner Keyer. Set cache.prefix to
// keep staging and production renders apart in one Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer scopes inner (the default keyer when nil) under prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

func (k *ScopedKeyer) ResolveKey(docHash string, opts ResolveKeyOpts) string {
	return k.prefix + k.inner.ResolveKey(docHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(refsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(refsHash, opts)
}
