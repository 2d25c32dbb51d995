package cache

import "time"

// Layered reads through an ordered list of caches (fastest first) and
// backfills earlier layers on a hit. Writes go to every layer;
// a layer error does not stop the others.
type Layered struct {
	layers []BytesCache
}

func NewLayered(layers ...BytesCache) *Layered {
	return &Layered{layers: layers}
}

func (l *Layered) GetBytes(key string) ([]byte, bool, error) {
	var firstErr error
	for i, layer := range l.layers {
		b, ok, err := layer.GetBytes(key)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			for j := 0; j < i; j++ {
				_ = l.layers[j].SetBytes(key, b, 0)
			}
			return b, true, nil
		}
	}
	return nil, false, firstErr
}

func (l *Layered) SetBytes(key string, value []byte, ttl time.Duration) error {
	var firstErr error
	for _, layer := range l.layers {
		if err := layer.SetBytes(key, value, ttl); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ BytesCache = (*Layered)(nil)
