package cache

// ScopedKeyer namespaces another Keyer's keys. The CLI scopes keys with
// "exhibitnet:" whenever it talks to Redis or MongoDB, which other
// applications may share:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "exhibitnet:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prepends prefix to every key of inner (DefaultKeyer if nil).
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

func (k *ScopedKeyer) TableKey(uri string, opts TableKeyOpts) string {
	return k.prefix + k.inner.TableKey(uri, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
