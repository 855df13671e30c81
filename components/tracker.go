package components

import "container/heap"

// Tracker maintains connectivity statistics while elements are activated
// and connected, never removed. Removal processes are analysed by feeding
// their order to a Tracker backwards.
//
// Every slot starts inactive. Activate makes a slot a singleton component;
// Connect joins two active slots. The top two non-trivial sizes are kept in
// a lazy max-heap: stale entries (absorbed roots, outdated sizes) are
// discarded when they surface.
type Tracker struct {
	dsu        *DisjointSet
	active     []bool
	activeN    int
	components int
	nonTrivial int
	top        sizeHeap
}

// NewTracker returns a Tracker over n inactive slots.
func NewTracker(n int) *Tracker {
	return &Tracker{
		dsu:    NewDisjointSet(n),
		active: make([]bool, n),
	}
}

// NewActiveTracker returns a Tracker with all n slots already active, the
// starting point for replaying bond removals over a fixed vertex set.
func NewActiveTracker(n int) *Tracker {
	t := NewTracker(n)
	for i := range t.active {
		t.active[i] = true
	}
	t.activeN = n
	t.components = n

	return t
}

// Active reports whether slot i has been activated.
func (t *Tracker) Active(i int) bool { return t.active[i] }

// Activate turns slot i into a singleton component. Activating an active
// slot is a no-op.
func (t *Tracker) Activate(i int) {
	if t.active[i] {
		return
	}
	t.active[i] = true
	t.activeN++
	t.components++
}

// Connect joins the components of two active slots and reports whether they
// were previously separate. Inactive endpoints are ignored.
func (t *Tracker) Connect(a, b int) bool {
	if !t.active[a] || !t.active[b] {
		return false
	}
	sa, sb := t.dsu.Size(a), t.dsu.Size(b)
	root, merged := t.dsu.Union(a, b)
	if !merged {
		return false
	}

	t.components--
	if sa >= minNonTrivial {
		t.nonTrivial--
	}
	if sb >= minNonTrivial {
		t.nonTrivial--
	}
	t.nonTrivial++
	heap.Push(&t.top, sizeEntry{size: sa + sb, root: root})

	return true
}

// Summary reports the statistics of the active sub-structure.
func (t *Tracker) Summary() Summary {
	s := Summary{
		Vertices:   t.activeN,
		Components: t.components,
		NonTrivial: t.nonTrivial,
	}
	if t.activeN > 0 {
		s.Largest = 1
	}

	first, ok := t.popValid()
	if !ok {
		return s
	}
	s.Largest = first.size
	if second, ok := t.peekValid(); ok {
		s.SecondLargest = second.size
	}
	heap.Push(&t.top, first)

	return s
}

// valid reports whether e still describes a live root with its current size.
func (t *Tracker) valid(e sizeEntry) bool {
	return t.dsu.IsRoot(e.root) && t.dsu.size[e.root] == e.size
}

func (t *Tracker) popValid() (sizeEntry, bool) {
	for t.top.Len() > 0 {
		e := heap.Pop(&t.top).(sizeEntry)
		if t.valid(e) {
			return e, true
		}
	}

	return sizeEntry{}, false
}

func (t *Tracker) peekValid() (sizeEntry, bool) {
	for t.top.Len() > 0 {
		if e := t.top[0]; t.valid(e) {
			return e, true
		}
		heap.Pop(&t.top)
	}

	return sizeEntry{}, false
}

type sizeEntry struct {
	size int
	root int
}

// sizeHeap is a max-heap on size.
type sizeHeap []sizeEntry

func (h sizeHeap) Len() int            { return len(h) }
func (h sizeHeap) Less(i, j int) bool  { return h[i].size > h[j].size }
func (h sizeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *sizeHeap) Push(x interface{}) { *h = append(*h, x.(sizeEntry)) }
func (h *sizeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]

	return x
}
