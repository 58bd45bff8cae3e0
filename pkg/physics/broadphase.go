package physics

import (
	"cmp"
	"math"
	"slices"
)

type gridKey struct {
	x, y int
}

type pairKey struct {
	a, b uint32
}

func makePairKey(f, g *Fixture) pairKey {
	if f.id < g.id {
		return pairKey{f.id, g.id}
	}
	return pairKey{g.id, f.id}
}

// Contact is a touching pair of fixtures. A has the lower fixture id.
type Contact struct {
	A, B *Fixture
}

// Other returns the fixture of c that is not f.
func (c Contact) Other(f *Fixture) *Fixture {
	if c.A == f {
		return c.B
	}
	return c.A
}

// ContactListener receives contact transitions from UpdateContacts.
type ContactListener interface {
	BeginContact(c Contact)
	EndContact(c Contact)
}

// minCellSize keeps the grid sane when every dynamic fixture is tiny.
const minCellSize = 0.05

// UpdateContacts runs the broadphase and reports every fixture pair that
// started or stopped touching since the previous call. Ends are reported
// before begins, each in fixture id order. It returns the number of begins.
func (w *World) UpdateContacts(l ContactListener) int {
	clear(w.touching)
	cellSize := w.rebuildGrid()

	for _, f := range w.dynamic {
		for _, g := range w.nearbyFixtures(f, cellSize) {
			if g.id <= f.id {
				continue
			}
			w.testPair(f, g)
		}
		for _, g := range w.static {
			w.testPair(f, g)
		}
	}

	for _, k := range sortedKeys(w.contacts) {
		if _, still := w.touching[k]; still {
			continue
		}
		c := w.contacts[k]
		delete(w.contacts, k)
		l.EndContact(c)
	}
	begun := 0
	for _, k := range sortedKeys(w.touching) {
		if _, known := w.contacts[k]; known {
			continue
		}
		c := w.touching[k]
		w.contacts[k] = c
		begun++
		l.BeginContact(c)
	}
	return begun
}

// ContactCount is the number of fixture pairs touching after the last update.
func (w *World) ContactCount() int {
	return len(w.contacts)
}

// Contacts visits the current contacts in fixture id order.
func (w *World) Contacts(fn func(Contact)) {
	for _, k := range sortedKeys(w.contacts) {
		fn(w.contacts[k])
	}
}

func (w *World) testPair(f, g *Fixture) {
	if !ShouldCollide(f, g) || !Overlaps(f, g) {
		return
	}
	k := makePairKey(f, g)
	if f.id < g.id {
		w.touching[k] = Contact{A: f, B: g}
	} else {
		w.touching[k] = Contact{A: g, B: f}
	}
}

// rebuildGrid buckets dynamic fixtures by the cell holding their centre.
// The cell is at least as wide as the widest fixture, so a 3x3 scan around
// a fixture finds everything that can overlap it.
func (w *World) rebuildGrid() float64 {
	// keep slice capacity between ticks
	for k := range w.grid {
		w.grid[k] = w.grid[k][:0]
	}
	cellSize := w.getCellSize()
	for _, f := range w.dynamic {
		key := cellOf(f, cellSize)
		w.grid[key] = append(w.grid[key], f)
	}
	return cellSize
}

func (w *World) getCellSize() float64 {
	size := minCellSize
	for _, f := range w.dynamic {
		hx, hy := f.HalfExtents()
		size = math.Max(size, 2*math.Max(hx, hy))
	}
	return size
}

func cellOf(f *Fixture, cellSize float64) gridKey {
	c := f.Center()
	return gridKey{x: int(math.Floor(c.X / cellSize)), y: int(math.Floor(c.Y / cellSize))}
}

// nearbyFixtures returns the dynamic fixtures in and around f's cell (3x3).
func (w *World) nearbyFixtures(f *Fixture, cellSize float64) []*Fixture {
	key := cellOf(f, cellSize)
	var out []*Fixture
	for i := key.x - 1; i <= key.x+1; i++ {
		for j := key.y - 1; j <= key.y+1; j++ {
			if fs, ok := w.grid[gridKey{x: i, y: j}]; ok {
				out = append(out, fs...)
			}
		}
	}
	return out
}

func sortedKeys(m map[pairKey]Contact) []pairKey {
	keys := make([]pairKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(x, y pairKey) int {
		if c := cmp.Compare(x.a, y.a); c != 0 {
			return c
		}
		return cmp.Compare(x.b, y.b)
	})
	return keys
}
