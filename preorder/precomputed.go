package preorder

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/sony/gobreaker"
)

// Sentinel errors for the precomputed-table cache.
var (
	// ErrTooManyAlternatives indicates a request for a table size beyond
	// what this cache can produce (N=7 is the practical ceiling for
	// exhaustive preorder enumeration).
	ErrTooManyAlternatives = errors.New("preorder: alternative count exceeds supported size")

	// ErrNeedPrecomputedPreorders indicates size-7 tables were requested
	// without a FileLoader configured to supply them.
	ErrNeedPrecomputedPreorders = errors.New("preorder: size 7 requires a precomputed preorders file")
)

// Table holds every preorder over a fixed alternative count, plus the
// strict (partial-order) and total (weak-order) subsets, precomputed once
// so TraverseAll never re-filters the full list per call.
type Table struct {
	All     []Preorder
	Partial []Preorder // IsStrict()
	Weak    []Preorder // IsTotal()
}

func buildTable(all []Preorder) Table {
	t := Table{All: all}
	for _, p := range all {
		if p.IsStrict() {
			t.Partial = append(t.Partial, p)
		}
		if p.IsTotal() {
			t.Weak = append(t.Weak, p)
		}
	}
	return t
}

// FileLoader reads the little-endian uint64 FastPreorder sequence file
// used to supply size-7 tables, which are too numerous to search for at
// request time. Reads are guarded by a circuit breaker: a corrupt or
// missing file fails fast on subsequent calls instead of repeatedly
// re-opening and re-scanning it.
type FileLoader struct {
	path    string
	breaker *gobreaker.CircuitBreaker
}

// NewFileLoader returns a loader for the precomputed-preorders file at
// path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{
		path: path,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "preorder-file-loader",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
		}),
	}
}

// Load reads every FastPreorder word from the configured file.
func (fl *FileLoader) Load() ([]FastPreorder, error) {
	result, err := fl.breaker.Execute(func() (interface{}, error) {
		f, err := os.Open(fl.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		r := bufio.NewReader(f)
		var out []FastPreorder
		for {
			var word uint64
			if err := binary.Read(r, binary.LittleEndian, &word); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, err
			}
			out = append(out, FastPreorder(word))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]FastPreorder), nil
}

// Precomputed caches, per alternative count, the full/strict/total
// preorder tables consumed by model.TraverseAll.
type Precomputed struct {
	tables []Table
	loader *FileLoader
}

// NewPrecomputed returns an empty cache. loader may be nil if size-7
// tables will never be requested.
func NewPrecomputed(loader *FileLoader) *Precomputed {
	return &Precomputed{loader: loader}
}

// Precompute extends the cache, if needed, up to and including maxSize
// alternatives.
//
// Complexity: exponential in maxSize for sizes below 7 (see
// AllFastPreorders); O(file size) for size 7; already-cached sizes are
// free.
func (pc *Precomputed) Precompute(maxSize uint32) error {
	for size := uint32(len(pc.tables)); size <= maxSize; size++ {
		switch {
		case size < 7:
			fps := AllFastPreorders(size)
			all := make([]Preorder, 0, len(fps))
			for _, fp := range fps {
				all = append(all, FromFastPreorder(size, fp))
			}
			pc.tables = append(pc.tables, buildTable(all))

		case size == 7:
			if pc.loader == nil {
				return ErrNeedPrecomputedPreorders
			}
			fps, err := pc.loader.Load()
			if err != nil {
				return err
			}
			all := make([]Preorder, 0, len(fps))
			for _, fp := range fps {
				all = append(all, FromFastPreorder(7, fp))
			}
			pc.tables = append(pc.tables, buildTable(all))

		default:
			return ErrTooManyAlternatives
		}
	}
	return nil
}

// Get returns the cached table for size.
func (pc *Precomputed) Get(size uint32) (Table, error) {
	if int(size) >= len(pc.tables) {
		return Table{}, ErrTooManyAlternatives
	}
	return pc.tables[size], nil
}
