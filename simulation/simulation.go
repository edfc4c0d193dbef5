// Package simulation generates synthetic subject.Subject data: a
// MenuGenerator produces the menus a simulated subject is offered, and a
// ChoiceGenerator decides what gets chosen from each one. Both draw from a
// single process-wide RNG stream, seeded deterministically unless reset by
// an explicit Seed call.
package simulation

import (
	"math/rand"
	"sync"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/subject"
)

// defaultSeed is the fixed seed used until the first explicit Seed call.
const defaultSeed int64 = 1

var (
	rngMu  sync.Mutex
	rngSrc = rand.New(rand.NewSource(defaultSeed))
)

// Seed resets the shared RNG stream to a fresh source derived from seed.
// Without a Seed call the stream is deterministic from process start
// (seeded with defaultSeed), matching every other example's default-seed
// convention.
func Seed(seed int64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rngSrc = rand.New(rand.NewSource(seed))
}

// rngIntn draws a uniform int in [0, n) from the shared stream.
//
// math/rand.Rand is not goroutine-safe, hence the mutex: simulation runs
// are expected to be occasional CLI/RPC requests, not a hot path, so
// serializing them is the right tradeoff over giving every caller its own
// stream.
func rngIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rngSrc.Intn(n)
}

// MenuSpec is one generated menu, with an optional default alternative.
type MenuSpec struct {
	Menu    altset.AltSet
	Default *alt.Alt
}

// MenuGenerator produces the sequence of menus a simulated subject sees.
type MenuGenerator interface {
	menuGeneratorTag() byte
	Generate(altCount uint32) []MenuSpec
}

// ExhaustiveMenuGenerator offers every non-empty subset of alternatives
// exactly once.
type ExhaustiveMenuGenerator struct{}

// SampleWithReplacementMenuGenerator draws Count independent random
// non-empty menus, possibly repeating one.
type SampleWithReplacementMenuGenerator struct{ Count uint32 }

// CopycatMenuGenerator replays another subject's exact menu sequence
// (including its recorded defaults).
type CopycatMenuGenerator struct{ Subject subject.Subject }

// BinaryMenuGenerator offers every distinct unordered pair of alternatives
// exactly once.
type BinaryMenuGenerator struct{}

func (ExhaustiveMenuGenerator) menuGeneratorTag() byte            { return 0 }
func (SampleWithReplacementMenuGenerator) menuGeneratorTag() byte { return 1 }
func (CopycatMenuGenerator) menuGeneratorTag() byte               { return 2 }
func (BinaryMenuGenerator) menuGeneratorTag() byte                { return 3 }

// Generate implements MenuGenerator.
func (ExhaustiveMenuGenerator) Generate(altCount uint32) []MenuSpec {
	menus := altset.Powerset(altCount)
	out := make([]MenuSpec, len(menus))
	for i, m := range menus {
		out[i] = MenuSpec{Menu: m}
	}
	return out
}

// Generate implements MenuGenerator.
func (g SampleWithReplacementMenuGenerator) Generate(altCount uint32) []MenuSpec {
	out := make([]MenuSpec, g.Count)
	for i := range out {
		out[i] = MenuSpec{Menu: randomNonEmptyAltSet(altCount)}
	}
	return out
}

// Generate implements MenuGenerator.
func (g CopycatMenuGenerator) Generate(uint32) []MenuSpec {
	out := make([]MenuSpec, len(g.Subject.Choices))
	for i, cr := range g.Subject.Choices {
		out[i] = MenuSpec{Menu: cr.Menu, Default: cr.Default}
	}
	return out
}

// Generate implements MenuGenerator.
func (BinaryMenuGenerator) Generate(altCount uint32) []MenuSpec {
	pairs := alt.DistinctPairs(altCount)
	seen := make(map[[2]int]bool)
	var out []MenuSpec
	for _, p := range pairs {
		u, v := p.A.Index(), p.B.Index()
		if u > v {
			u, v = v, u
		}
		key := [2]int{u, v}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, MenuSpec{Menu: altset.FromAlts(p.A, p.B)})
	}
	return out
}

func randomNonEmptyAltSet(altCount uint32) altset.AltSet {
	for {
		var alts []alt.Alt
		for i := uint32(0); i < altCount; i++ {
			if rngIntn(2) == 1 {
				alts = append(alts, alt.Alt(i))
			}
		}
		if len(alts) > 0 {
			return altset.FromAlts(alts...)
		}
	}
}

// GenMenus wraps a MenuGenerator with an option to fill in a random default
// alternative for every generated menu.
type GenMenus struct {
	Generator MenuGenerator
	Defaults  bool
}

// Generate runs g.Generator and, if g.Defaults is set, overwrites every
// result's Default with a uniformly random member of its own menu.
func (g GenMenus) Generate(altCount uint32) []MenuSpec {
	menus := g.Generator.Generate(altCount)
	if !g.Defaults {
		return menus
	}
	out := make([]MenuSpec, len(menus))
	for i, m := range menus {
		alts := m.Menu.Alts()
		if len(alts) == 0 {
			panic("simulation: GenMenus: empty menu")
		}
		d := alts[rngIntn(len(alts))]
		out[i] = MenuSpec{Menu: m.Menu, Default: &d}
	}
	return out
}

// ChoiceGenerator decides what a simulated subject chooses from a menu.
type ChoiceGenerator interface {
	Generate(altCount uint32, menu altset.View, def *alt.Alt) altset.AltSet
}

// InstanceChoiceGenerator answers every menu exactly as Instance would.
type InstanceChoiceGenerator struct{ Instance model.Instance }

// Generate implements ChoiceGenerator.
func (g InstanceChoiceGenerator) Generate(_ uint32, menu altset.View, def *alt.Alt) altset.AltSet {
	return g.Instance.Choice(menu, def)
}

// UniformChoiceGenerator picks uniformly among the menu's alternatives
// (plus, unless ForcedChoice is set, a deferral option). MultipleChoice
// widens a non-deferral pick to a uniformly random non-empty subset of the
// menu instead of a single alternative.
type UniformChoiceGenerator struct {
	ForcedChoice   bool
	MultipleChoice bool
}

// Generate implements ChoiceGenerator.
func (g UniformChoiceGenerator) Generate(_ uint32, menu altset.View, def *alt.Alt) altset.AltSet {
	if !menu.IsNonEmpty() {
		panic("simulation: UniformChoiceGenerator: empty menu")
	}
	feasible := append([]alt.Alt{}, menu.Alts()...)
	deferIndex := len(feasible)
	if !g.ForcedChoice {
		feasible = append(feasible, alt.Alt(0)) // placeholder slot for deferral
	}

	pick := rngIntn(len(feasible))
	if !g.ForcedChoice && pick == deferIndex {
		if def != nil {
			return altset.Singleton(*def)
		}
		return altset.Empty()
	}

	if g.MultipleChoice {
		nonDeferral := feasible[:deferIndex]
		subset := randomNonEmptySubset(nonDeferral)
		return altset.FromAlts(subset...)
	}
	return altset.Singleton(feasible[pick])
}

func randomNonEmptySubset(alts []alt.Alt) []alt.Alt {
	for {
		var out []alt.Alt
		for _, a := range alts {
			if rngIntn(2) == 1 {
				out = append(out, a)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
}

// Request describes one simulated subject to generate.
type Request struct {
	Name              string
	Alternatives      []string
	GenMenus          GenMenus
	GenChoices        ChoiceGenerator
	PreserveDeferrals bool
}

// Run generates a subject.Subject from req: for a CopycatMenuGenerator,
// req.Name is appended to the copied subject's name, and a deferral in the
// copied source row is preserved verbatim when PreserveDeferrals is set
// instead of being re-answered by GenChoices.
func Run(req Request) subject.Subject {
	altCount := uint32(len(req.Alternatives))
	menus := req.GenMenus.Generate(altCount)

	copycat, isCopycat := req.GenMenus.Generator.(CopycatMenuGenerator)

	choices := make([]subject.ChoiceRow, len(menus))
	for i, m := range menus {
		var choice altset.AltSet
		if isCopycat && req.PreserveDeferrals && copycat.Subject.Choices[i].Choice.IsEmpty() {
			choice = altset.Empty()
		} else {
			choice = req.GenChoices.Generate(altCount, m.Menu.View(), m.Default)
		}
		choices[i] = subject.ChoiceRow{Menu: m.Menu, Default: m.Default, Choice: choice}
	}

	name := req.Name
	if isCopycat {
		name = copycat.Subject.Name + req.Name
	}

	return subject.Subject{
		Name:         name,
		Alternatives: req.Alternatives,
		Choices:      choices,
	}
}
