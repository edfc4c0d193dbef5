package preorder

// LinearOrders generates every strict total order over altCount
// alternatives (every permutation), via the Steinhaus-Johnson-Trotter
// algorithm, as successive calls to Next. Neither it nor its callers bound
// altCount; the number of orders is altCount!.
type LinearOrders struct {
	vals  []int
	dirs  []int8
	first bool
}

// NewLinearOrders returns a generator positioned before the first
// permutation of 0..altCount-1.
func NewLinearOrders(altCount uint32) *LinearOrders {
	n := int(altCount)
	vals := make([]int, n)
	dirs := make([]int8, n)
	for i := range vals {
		vals[i] = i
		dirs[i] = -1
	}
	if n > 0 {
		dirs[0] = 0
	}
	return &LinearOrders{vals: vals, dirs: dirs, first: true}
}

// Next returns the values of the next permutation as a preorder (via
// FromValues) and true, or ok=false once every permutation has been
// produced.
func (g *LinearOrders) Next() (p Preorder, ok bool) {
	if g.first {
		g.first = false
		return FromValues(g.vals), true
	}

	n := len(g.vals)
	// Find the largest-valued element with a non-zero direction.
	mobileIdx := -1
	mobileVal := -1
	for i := 0; i < n; i++ {
		if g.dirs[i] != 0 && g.vals[i] > mobileVal {
			mobileVal = g.vals[i]
			mobileIdx = i
		}
	}
	if mobileIdx < 0 {
		return Preorder{}, false
	}

	dir := g.dirs[mobileIdx]
	target := mobileIdx + int(dir)
	g.vals[mobileIdx], g.vals[target] = g.vals[target], g.vals[mobileIdx]
	g.dirs[mobileIdx], g.dirs[target] = g.dirs[target], g.dirs[mobileIdx]
	newIdx := target

	// Any element larger than mobileVal now has its direction reset to
	// point toward newIdx (standard SJT "reverse the larger elements").
	for i := 0; i < n; i++ {
		if g.vals[i] > mobileVal {
			if i < newIdx {
				g.dirs[i] = 1
			} else {
				g.dirs[i] = -1
			}
		}
	}

	// Clear the moved element's direction if it would run off the end or
	// would next swap with a still-larger neighbour.
	nd := g.dirs[newIdx]
	next := newIdx + int(nd)
	if next < 0 || next >= n || g.vals[next] > mobileVal {
		g.dirs[newIdx] = 0
	}

	return FromValues(g.vals), true
}

// AllLinearOrders materialises every strict total order over altCount
// alternatives.
func AllLinearOrders(altCount uint32) []Preorder {
	g := NewLinearOrders(altCount)
	var out []Preorder
	for {
		p, ok := g.Next()
		if !ok {
			break
		}
		out = append(out, p)
	}
	return out
}
