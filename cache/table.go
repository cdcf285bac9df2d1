package cache

// Table maps positions to depth-stamped entries.
type Table[S comparable, A any] struct {
	entries map[S]Entry[A]
	stores  int
}

func NewTable[S comparable, A any]() *Table[S, A] {
	return &Table[S, A]{entries: make(map[S]Entry[A])}
}

// Lookup returns the entry for state only if it was computed at least depth
// plies deep.
func (t *Table[S, A]) Lookup(state S, depth int) (Entry[A], bool) {
	e, ok := t.entries[state]
	if !ok || !e.Covers(depth) {
		return Entry[A]{}, false
	}
	return e, true
}

// Peek returns the entry for state regardless of its depth.
func (t *Table[S, A]) Peek(state S) (Entry[A], bool) {
	e, ok := t.entries[state]
	return e, ok
}

// Store keeps e unless a deeper entry is already held for state.
func (t *Table[S, A]) Store(state S, e Entry[A]) {
	old, ok := t.entries[state]
	if ok && old.Depth > e.Depth {
		return
	}
	t.entries[state] = e
	t.stores++
}

// Retain drops every entry whose state keep rejects.
func (t *Table[S, A]) Retain(keep func(S) bool) {
	for state := range t.entries {
		if !keep(state) {
			delete(t.entries, state)
		}
	}
}

func (t *Table[S, A]) Len() int {
	return len(t.entries)
}

// Stores counts the entries written since the table was created.
func (t *Table[S, A]) Stores() int {
	return t.stores
}

func (t *Table[S, A]) Clear() {
	clear(t.entries)
}
