package common

import lru "github.com/hashicorp/golang-lru"

// KnownCache is a small, bounded set of Hash values, adapted from the
// teacher's generic common.Cache (an LRU wrapper used there for trie and
// account caches). Here it backs a single, narrower job: remembering
// which block/tx hashes the network worker has recently announced, so
// the same hash arriving again is not announced a second time. It is not
// keyed by peer. It is a gossip-hygiene aid only; it never gates
// consensus decisions, which always consult the authoritative maps in
// chain.Chain / mempool.Pool.
type KnownCache struct {
	cache *lru.Cache
}

// NewKnownCache builds a cache holding at most size entries, evicting the
// least recently used hash once full. size mirrors the teacher's
// maxKnownBlocks/maxKnownTxs constants (peer.go): a cap chosen to bound
// memory, not a correctness requirement.
func NewKnownCache(size int) *KnownCache {
	c, _ := lru.New(size)
	return &KnownCache{cache: c}
}

func (k *KnownCache) Add(h Hash) {
	k.cache.Add(h, struct{}{})
}

func (k *KnownCache) Contains(h Hash) bool {
	return k.cache.Contains(h)
}
