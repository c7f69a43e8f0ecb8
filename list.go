package binn

import "iter"

// List is a container of values without keys.
type List struct {
	c Container
}

// EmptyList returns a read-only empty list.
func EmptyList() List { return List{EmptyContainer(KeyNone)} }

// NewList writes an empty list into buf and opens it for appending.
func NewList(buf []byte) (List, error) {
	c, err := NewContainer(buf, KeyNone)
	return List{c}, err
}

// OpenList validates the list at the start of buf and opens it for appending.
func OpenList(buf []byte) (List, error) {
	c, err := OpenContainer(buf, KeyNone)
	return List{c}, err
}

// LoadList validates the list at the start of data and returns a read-only
// view.
func LoadList(data []byte) (List, error) {
	c, err := LoadContainer(data, KeyNone)
	return List{c}, err
}

func (l List) Container() Container { return l.c }
func (l List) Value() Value         { return l.c.Value() }
func (l List) Bytes() []byte        { return l.c.Bytes() }
func (l List) Count() int           { return l.c.Count() }
func (l List) IsMutable() bool      { return l.c.IsMutable() }

// Add appends v and returns it as stored.
func (l List) Add(v Value) (Value, error) {
	return l.c.Add(NoKey(), v)
}

// AddList appends an empty list and returns a handle for filling it.
func (l List) AddList() (List, error) {
	v, err := l.Add(EmptyList().Value())
	return List{v.c}, err
}

// AddMap appends an empty map and returns a handle for filling it.
func (l List) AddMap() (Map, error) {
	v, err := l.Add(EmptyMap().Value())
	return Map{v.c}, err
}

// AddObject appends an empty object and returns a handle for filling it.
func (l List) AddObject() (Object, error) {
	v, err := l.Add(EmptyObject().Value())
	return Object{v.c}, err
}

// Get returns the element at position pos.
func (l List) Get(pos int) (Value, bool) {
	_, v, ok := l.c.GetAt(pos)
	return v, ok
}

// All iterates over positions and values.
func (l List) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		i := 0
		for v := range l.c.Values() {
			if !yield(i, v) {
				return
			}
			i++
		}
	}
}

func (l List) Values() iter.Seq[Value] { return l.c.Values() }
func (l List) String() string          { return Dump(l.Value()) }
