package models

// KeyMaps is the wrapped-key-map pair owned by each instance store (one pair
// per password store, one pair per file store; spec.md §3). WrappedKeys maps
// a HashmapID to the per-instance key K_i encrypted under the master key via
// the cascade; UnwrappedKeyHashes maps the same HashmapID to a hash of the
// unwrapped K_i, used to detect tampering or a master-key mismatch without
// revealing the key itself.
//
// Invariant: for every stored instance, HashmapID appears in both maps, and
// the hash in UnwrappedKeyHashes matches hash(unwrap(WrappedKeys[h], masterKey)).
type KeyMaps struct {
	WrappedKeys        map[uint64][]byte `json:"wrapped_keys"`
	UnwrappedKeyHashes map[uint64]string `json:"unwrapped_key_hashes"`
}

// NewKeyMaps returns an empty, well-formed KeyMaps pair.
func NewKeyMaps() KeyMaps {
	return KeyMaps{
		WrappedKeys:        make(map[uint64][]byte),
		UnwrappedKeyHashes: make(map[uint64]string),
	}
}
