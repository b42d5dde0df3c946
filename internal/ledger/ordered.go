package ledger

// ordered is a map that remembers the order in which keys were first added.
// The zero value is ready to use.
type ordered[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func (o *ordered[K, V]) get(k K) (V, bool) {
	v, ok := o.vals[k]
	return v, ok
}

// put stores v under k. An existing key keeps its position.
func (o *ordered[K, V]) put(k K, v V) {
	if o.vals == nil {
		o.vals = make(map[K]V)
	}
	if _, exists := o.vals[k]; !exists {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

func (o *ordered[K, V]) values() []V {
	out := make([]V, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.vals[k])
	}
	return out
}

func (o *ordered[K, V]) len() int {
	return len(o.keys)
}
