package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Purge()
	Size() int
}

// Purger is anything that can drop all of its entries at once.
type Purger interface {
	Purge()
}

// Group invalidates several caches together, e.g. after a write that makes
// every derived view stale.
type Group struct {
	caches []Purger
}

// NewGroup creates a group over the given caches.
func NewGroup(caches ...Purger) *Group {
	return &Group{caches: caches}
}

// PurgeAll empties every registered cache.
func (g *Group) PurgeAll() {
	for _, c := range g.caches {
		c.Purge()
	}
}

var (
	_ Cache[int] = (*LRUCache[int])(nil)
	_ Purger     = (*LRUCache[int])(nil)
)
