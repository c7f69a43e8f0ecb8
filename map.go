package binn

import "iter"

// Map is a container with int32 keys.
type Map struct {
	c Container
}

// EmptyMap returns a read-only empty map.
func EmptyMap() Map { return Map{EmptyContainer(KeyInt)} }

// NewMap writes an empty map into buf and opens it for appending.
func NewMap(buf []byte) (Map, error) {
	c, err := NewContainer(buf, KeyInt)
	return Map{c}, err
}

// OpenMap validates the map at the start of buf and opens it for appending.
func OpenMap(buf []byte) (Map, error) {
	c, err := OpenContainer(buf, KeyInt)
	return Map{c}, err
}

// LoadMap validates the map at the start of data and returns a read-only
// view.
func LoadMap(data []byte) (Map, error) {
	c, err := LoadContainer(data, KeyInt)
	return Map{c}, err
}

func (m Map) container() Container {
	if m.c.doc == nil && m.c.raw == nil {
		return EmptyContainer(KeyInt)
	}
	return m.c
}

func (m Map) Container() Container { return m.container() }
func (m Map) Value() Value         { return m.container().Value() }
func (m Map) Bytes() []byte        { return m.container().Bytes() }
func (m Map) Count() int           { return m.container().Count() }
func (m Map) IsMutable() bool      { return m.c.IsMutable() }

// Add appends v under key. Keys are not deduplicated.
func (m Map) Add(key int32, v Value) (Value, error) {
	return m.container().Add(IntKey(key), v)
}

func (m Map) AddList(key int32) (List, error) {
	v, err := m.Add(key, EmptyList().Value())
	return List{v.c}, err
}

func (m Map) AddMap(key int32) (Map, error) {
	v, err := m.Add(key, EmptyMap().Value())
	return Map{v.c}, err
}

func (m Map) AddObject(key int32) (Object, error) {
	v, err := m.Add(key, EmptyObject().Value())
	return Object{v.c}, err
}

// Get returns the first value stored under key.
func (m Map) Get(key int32) (Value, bool) {
	return m.container().Get(IntKey(key))
}

// All iterates over keys and values in storage order.
func (m Map) All() iter.Seq2[int32, Value] {
	return func(yield func(int32, Value) bool) {
		for k, v := range m.container().All() {
			if !yield(k.num, v) {
				return
			}
		}
	}
}

func (m Map) String() string { return Dump(m.Value()) }
