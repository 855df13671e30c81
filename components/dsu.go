package components

// DisjointSet is a union-find forest over the dense indices 0..n-1 using
// union by size and path halving.
//
// It is not safe for concurrent use; every percolation trial owns its own.
type DisjointSet struct {
	parent []int
	size   []int
	sets   int
}

// NewDisjointSet returns n singleton sets.
func NewDisjointSet(n int) *DisjointSet {
	d := &DisjointSet{
		parent: make([]int, n),
		size:   make([]int, n),
		sets:   n,
	}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}

	return d
}

// Len returns the number of elements.
func (d *DisjointSet) Len() int { return len(d.parent) }

// Sets returns the current number of disjoint sets.
func (d *DisjointSet) Sets() int { return d.sets }

// Find returns the root of x, halving the path on the way up.
func (d *DisjointSet) Find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}

	return x
}

// IsRoot reports whether x is currently the representative of its set.
func (d *DisjointSet) IsRoot(x int) bool { return d.parent[x] == x }

// Size returns the size of the set containing x.
func (d *DisjointSet) Size(x int) int { return d.size[d.Find(x)] }

// Union merges the sets of a and b. It returns the surviving root and
// whether a merge happened (false when a and b were already joined).
func (d *DisjointSet) Union(a, b int) (int, bool) {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return ra, false
	}
	// attach the smaller tree under the larger one
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
	d.sets--

	return ra, true
}
