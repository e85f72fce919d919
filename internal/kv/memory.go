package kv

// Memory is an in-process store.
type Memory struct {
	values map[string][]byte
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

func (m *Memory) Get(key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
