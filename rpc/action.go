// Package rpc exposes the estimation, consistency, simulation, integrity,
// instviz and aggregate packages over a request/response protocol, framed
// either as a length-prefixed stdin/stdout byte stream (StreamServer) or
// as a WebSocket connection (WSServer) whose binary messages carry an
// unprefixed encoded Action in and the same response frames out.
package rpc

import (
	"errors"
	"io"

	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/subject"
)

// ErrUnknownAction is returned when a frame's tag byte names no known
// Action.
var ErrUnknownAction = errors.New("rpc: unknown action tag")

// Action is one request a client can send. Each variant pairs with the
// response type its Dispatch call returns (see handler.go).
type Action interface {
	actionTag() byte
	encode(w io.Writer) error
}

// EchoAction asks the server to return Message unchanged. Useful for
// liveness checks over either transport.
type EchoAction struct{ Message string }

// QuitAction asks StreamServer.Serve to return after acknowledging.
type QuitAction struct{}

// SetRNGSeedAction reseeds the process-wide simulation RNG stream.
type SetRNGSeedAction struct{ Seed int64 }

// IntegrityCheckAction runs integrity.Check over Subject.
type IntegrityCheckAction struct{ Subject subject.Subject }

// InstVizAction runs instviz.Render over a base64 instance blob.
type InstVizAction struct{ InstanceCode string }

// EstimationAction runs estimation.Run over Subjects against Models.
type EstimationAction struct {
	Subjects           []subject.Subject
	Models             []model.Model
	DistanceScore      model.DistanceScore
	DisableParallelism bool
}

// ConsistencyDeterministicAction runs consistency.Analyze over one
// subject's choice rows.
type ConsistencyDeterministicAction struct {
	AltCount           uint32
	Choices            []subject.ChoiceRow
	AllowRepeatedMenus bool
}

// ConsistencyStochasticAction runs the stochastic-transitivity and
// regularity checks over one subject's choice rows.
type ConsistencyStochasticAction struct {
	AltCount uint32
	Choices  []subject.ChoiceRow
}

// SimulateAction generates one synthetic subject via simulation.Run.
type SimulateAction struct {
	Name              string
	Alternatives      []string
	MenuGen           MenuGeneratorSpec
	Defaults          bool
	ChoiceGen         ChoiceGeneratorSpec
	PreserveDeferrals bool
}

// AggregateSubjectsAction runs aggregate.Subjects over a population's
// estimation results.
type AggregateSubjectsAction struct {
	Results []EstimationResultWire
}

const (
	tagEcho byte = iota
	tagQuit
	tagSetRNGSeed
	tagIntegrityCheck
	tagInstViz
	tagEstimation
	tagConsistencyDeterministic
	tagConsistencyStochastic
	tagSimulate
	tagAggregateSubjects
)

func (EchoAction) actionTag() byte                    { return tagEcho }
func (QuitAction) actionTag() byte                    { return tagQuit }
func (SetRNGSeedAction) actionTag() byte              { return tagSetRNGSeed }
func (IntegrityCheckAction) actionTag() byte          { return tagIntegrityCheck }
func (InstVizAction) actionTag() byte                 { return tagInstViz }
func (EstimationAction) actionTag() byte              { return tagEstimation }
func (ConsistencyDeterministicAction) actionTag() byte { return tagConsistencyDeterministic }
func (ConsistencyStochasticAction) actionTag() byte   { return tagConsistencyStochastic }
func (SimulateAction) actionTag() byte                { return tagSimulate }
func (AggregateSubjectsAction) actionTag() byte       { return tagAggregateSubjects }

func (a EchoAction) encode(w io.Writer) error { return codec.WriteString(w, a.Message) }

func (QuitAction) encode(io.Writer) error { return nil }

func (a SetRNGSeedAction) encode(w io.Writer) error { return codec.WriteUint64(w, uint64(a.Seed)) }

func (a IntegrityCheckAction) encode(w io.Writer) error { return a.Subject.Encode(w) }

func (a InstVizAction) encode(w io.Writer) error { return codec.WriteString(w, a.InstanceCode) }

func (a EstimationAction) encode(w io.Writer) error {
	if err := codec.WriteUint64(w, uint64(len(a.Subjects))); err != nil {
		return err
	}
	for _, s := range a.Subjects {
		if err := s.Encode(w); err != nil {
			return err
		}
	}
	if err := codec.WriteUint64(w, uint64(len(a.Models))); err != nil {
		return err
	}
	for _, m := range a.Models {
		if err := model.Encode(w, m); err != nil {
			return err
		}
	}
	if err := codec.WriteByte(w, byte(a.DistanceScore)); err != nil {
		return err
	}
	return codec.WriteBool(w, a.DisableParallelism)
}

func encodeChoiceRows(w io.Writer, rows []subject.ChoiceRow) error {
	if err := codec.WriteUint64(w, uint64(len(rows))); err != nil {
		return err
	}
	for _, cr := range rows {
		if err := cr.Encode(w); err != nil {
			return err
		}
	}
	return nil
}

func decodeChoiceRows(r io.Reader) ([]subject.ChoiceRow, error) {
	n, err := codec.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	rows := make([]subject.ChoiceRow, n)
	for i := range rows {
		rows[i], err = subject.DecodeChoiceRow(r)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (a ConsistencyDeterministicAction) encode(w io.Writer) error {
	if err := codec.WriteUint32(w, a.AltCount); err != nil {
		return err
	}
	if err := encodeChoiceRows(w, a.Choices); err != nil {
		return err
	}
	return codec.WriteBool(w, a.AllowRepeatedMenus)
}

func (a ConsistencyStochasticAction) encode(w io.Writer) error {
	if err := codec.WriteUint32(w, a.AltCount); err != nil {
		return err
	}
	return encodeChoiceRows(w, a.Choices)
}

func (a SimulateAction) encode(w io.Writer) error {
	if err := codec.WriteString(w, a.Name); err != nil {
		return err
	}
	if err := codec.WriteStringSlice(w, a.Alternatives); err != nil {
		return err
	}
	if err := a.MenuGen.encode(w); err != nil {
		return err
	}
	if err := codec.WriteBool(w, a.Defaults); err != nil {
		return err
	}
	if err := a.ChoiceGen.encode(w); err != nil {
		return err
	}
	return codec.WriteBool(w, a.PreserveDeferrals)
}

func (a AggregateSubjectsAction) encode(w io.Writer) error {
	if err := codec.WriteUint64(w, uint64(len(a.Results))); err != nil {
		return err
	}
	for _, res := range a.Results {
		if err := encodeEstimationResult(w, res); err != nil {
			return err
		}
	}
	return nil
}

// decodeAction reads the payload of an Action written by EncodeAction,
// whose tag byte the caller has already consumed.
func decodeAction(tag byte, r io.Reader) (Action, error) {
	switch tag {
	case tagEcho:
		s, err := codec.ReadString(r)
		return EchoAction{Message: s}, err

	case tagQuit:
		return QuitAction{}, nil

	case tagSetRNGSeed:
		v, err := codec.ReadUint64(r)
		return SetRNGSeedAction{Seed: int64(v)}, err

	case tagIntegrityCheck:
		s, err := subject.DecodeSubject(r)
		return IntegrityCheckAction{Subject: s}, err

	case tagInstViz:
		s, err := codec.ReadString(r)
		return InstVizAction{InstanceCode: s}, err

	case tagEstimation:
		n, err := codec.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		subjects := make([]subject.Subject, n)
		for i := range subjects {
			subjects[i], err = subject.DecodeSubject(r)
			if err != nil {
				return nil, err
			}
		}
		nm, err := codec.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		models := make([]model.Model, nm)
		for i := range models {
			models[i], err = model.Decode(r)
			if err != nil {
				return nil, err
			}
		}
		dsByte, err := codec.ReadByte(r)
		if err != nil {
			return nil, err
		}
		disable, err := codec.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return EstimationAction{
			Subjects:           subjects,
			Models:             models,
			DistanceScore:      model.DistanceScore(dsByte),
			DisableParallelism: disable,
		}, nil

	case tagConsistencyDeterministic:
		altCount, err := codec.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		choices, err := decodeChoiceRows(r)
		if err != nil {
			return nil, err
		}
		allow, err := codec.ReadBool(r)
		return ConsistencyDeterministicAction{AltCount: altCount, Choices: choices, AllowRepeatedMenus: allow}, err

	case tagConsistencyStochastic:
		altCount, err := codec.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		choices, err := decodeChoiceRows(r)
		return ConsistencyStochasticAction{AltCount: altCount, Choices: choices}, err

	case tagSimulate:
		name, err := codec.ReadString(r)
		if err != nil {
			return nil, err
		}
		alts, err := codec.ReadStringSlice(r)
		if err != nil {
			return nil, err
		}
		menuGen, err := decodeMenuGeneratorSpec(r)
		if err != nil {
			return nil, err
		}
		defaults, err := codec.ReadBool(r)
		if err != nil {
			return nil, err
		}
		choiceGen, err := decodeChoiceGeneratorSpec(r)
		if err != nil {
			return nil, err
		}
		preserve, err := codec.ReadBool(r)
		return SimulateAction{
			Name:              name,
			Alternatives:      alts,
			MenuGen:           menuGen,
			Defaults:          defaults,
			ChoiceGen:         choiceGen,
			PreserveDeferrals: preserve,
		}, err

	case tagAggregateSubjects:
		n, err := codec.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		results := make([]EstimationResultWire, n)
		for i := range results {
			results[i], err = decodeEstimationResultWire(r)
			if err != nil {
				return nil, err
			}
		}
		return AggregateSubjectsAction{Results: results}, nil

	default:
		return nil, ErrUnknownAction
	}
}

// EncodeAction writes a's tag byte followed by its payload.
func EncodeAction(w io.Writer, a Action) error {
	if err := codec.WriteByte(w, a.actionTag()); err != nil {
		return err
	}
	return a.encode(w)
}

// DecodeAction reads a value written by EncodeAction.
func DecodeAction(r io.Reader) (Action, error) {
	tag, err := codec.ReadByte(r)
	if err != nil {
		return nil, err
	}
	return decodeAction(tag, r)
}
