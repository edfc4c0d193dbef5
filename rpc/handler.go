package rpc

import (
	"io"

	"github.com/prestsoftware/prest/aggregate"
	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/consistency"
	"github.com/prestsoftware/prest/estimation"
	"github.com/prestsoftware/prest/instviz"
	"github.com/prestsoftware/prest/integrity"
	"github.com/prestsoftware/prest/internal/obslog"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/simulation"
	"github.com/prestsoftware/prest/subject"
)

// Env holds the state a Dispatch call needs across requests: the shared
// precomputed-preorders cache (expensive to rebuild, so one per process)
// and a logger for server-side diagnostics distinct from the per-request
// wireLogger that streams progress back to the caller.
type Env struct {
	Precomputed *preorder.Precomputed
	Log         *obslog.Logger
}

// Dispatch runs one Action against env and writes its response as a
// single answer frame (or an error frame on failure) to w. It reports
// quit=true for QuitAction, telling the caller's serve loop to stop after
// this response is flushed, and violation=true whenever the response
// written was an error frame rather than an answer (domain errors, not
// transport-level I/O failures, which are instead returned in err).
func Dispatch(env *Env, a Action, w io.Writer) (quit bool, violation bool, err error) {
	switch act := a.(type) {
	case EchoAction:
		return false, false, writeAnswer(w, func(w io.Writer) error { return codec.WriteString(w, act.Message) })

	case QuitAction:
		werr := writeAnswer(w, func(io.Writer) error { return nil })
		return true, false, werr

	case SetRNGSeedAction:
		simulation.Seed(act.Seed)
		return false, false, writeAnswer(w, func(io.Writer) error { return nil })

	case IntegrityCheckAction:
		issues := integrity.Check(act.Subject)
		return false, false, writeAnswer(w, func(w io.Writer) error { return encodeIntegrityIssues(w, issues) })

	case InstVizAction:
		resp, rerr := instviz.Render(act.InstanceCode)
		if rerr != nil {
			return false, true, writeError(w, rerr.Error())
		}
		return false, false, writeAnswer(w, func(w io.Writer) error { return encodeInstVizResponse(w, resp) })

	case EstimationAction:
		results, rerr := runEstimation(env, act, newWireLogger(w))
		if rerr != nil {
			return false, true, writeError(w, rerr.Error())
		}
		return false, false, writeAnswer(w, func(w io.Writer) error {
			if err := codec.WriteUint64(w, uint64(len(results))); err != nil {
				return err
			}
			for _, res := range results {
				if err := encodeEstimationResult(w, res); err != nil {
					return err
				}
			}
			return nil
		})

	case ConsistencyDeterministicAction:
		v, rerr := consistency.Analyze(act.AltCount, act.Choices, act.AllowRepeatedMenus)
		if rerr != nil {
			return false, true, writeError(w, rerr.Error())
		}
		return false, false, writeAnswer(w, func(w io.Writer) error { return encodeViolations(w, v) })

	case ConsistencyStochasticAction:
		f := consistency.ComputeFrequencies(act.Choices)
		stv := consistency.CheckStochasticTransitivity(f, act.AltCount)
		reg := consistency.CheckRegularity(f)
		return false, false, writeAnswer(w, func(w io.Writer) error { return encodeStochasticResult(w, stv, reg) })

	case SimulateAction:
		s, rerr := runSimulate(act)
		if rerr != nil {
			return false, true, writeError(w, rerr.Error())
		}
		return false, false, writeAnswer(w, func(w io.Writer) error { return s.Encode(w) })

	case AggregateSubjectsAction:
		p, rerr := aggregate.Subjects(act.Results)
		if rerr != nil {
			return false, true, writeError(w, rerr.Error())
		}
		return false, false, writeAnswer(w, func(w io.Writer) error { return p.Encode(w) })

	default:
		return false, true, writeError(w, "rpc: unhandled action")
	}
}

func runEstimation(env *Env, act EstimationAction, log subject.Logger) ([]estimation.Result, error) {
	var maxAlt uint32
	for _, s := range act.Subjects {
		if n := s.AltCount(); n > maxAlt {
			maxAlt = n
		}
	}
	if estimation.NeedsPrecompute(act.Models) {
		if err := env.Precomputed.Precompute(maxAlt); err != nil {
			return nil, err
		}
	}
	return estimation.Run(env.Precomputed, act.Subjects, act.Models, act.DistanceScore, act.DisableParallelism, log)
}

func runSimulate(act SimulateAction) (subject.Subject, error) {
	menuGen, err := act.MenuGen.Generator()
	if err != nil {
		return subject.Subject{}, err
	}
	choiceGen, err := act.ChoiceGen.Generator()
	if err != nil {
		return subject.Subject{}, err
	}
	req := simulation.Request{
		Name:              act.Name,
		Alternatives:      act.Alternatives,
		GenMenus:          simulation.GenMenus{Generator: menuGen, Defaults: act.Defaults},
		GenChoices:        choiceGen,
		PreserveDeferrals: act.PreserveDeferrals,
	}
	return simulation.Run(req), nil
}
