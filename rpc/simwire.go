package rpc

import (
	"errors"
	"io"

	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/simulation"
	"github.com/prestsoftware/prest/subject"
)

// ErrUnknownGenerator is returned when a wire tag names no known menu or
// choice generator.
var ErrUnknownGenerator = errors.New("rpc: unknown generator tag")

// MenuGeneratorSpec is the wire representation of a
// simulation.MenuGenerator: this package, not simulation itself, owns the
// transport encoding, mirroring how the original rpc.rs kept its request
// envelopes separate from the domain modules' own types.
type MenuGeneratorSpec struct {
	Kind           byte
	SampleCount    uint32
	CopycatSubject subject.Subject
}

const (
	menuGenExhaustive byte = iota
	menuGenSampleWithReplacement
	menuGenCopycat
	menuGenBinary
)

func (s MenuGeneratorSpec) encode(w io.Writer) error {
	if err := codec.WriteByte(w, s.Kind); err != nil {
		return err
	}
	switch s.Kind {
	case menuGenSampleWithReplacement:
		return codec.WriteUint32(w, s.SampleCount)
	case menuGenCopycat:
		return s.CopycatSubject.Encode(w)
	default:
		return nil
	}
}

func decodeMenuGeneratorSpec(r io.Reader) (MenuGeneratorSpec, error) {
	kind, err := codec.ReadByte(r)
	if err != nil {
		return MenuGeneratorSpec{}, err
	}
	switch kind {
	case menuGenExhaustive, menuGenBinary:
		return MenuGeneratorSpec{Kind: kind}, nil
	case menuGenSampleWithReplacement:
		n, err := codec.ReadUint32(r)
		return MenuGeneratorSpec{Kind: kind, SampleCount: n}, err
	case menuGenCopycat:
		s, err := subject.DecodeSubject(r)
		return MenuGeneratorSpec{Kind: kind, CopycatSubject: s}, err
	default:
		return MenuGeneratorSpec{}, ErrUnknownGenerator
	}
}

// Generator builds the concrete simulation.MenuGenerator s describes.
func (s MenuGeneratorSpec) Generator() (simulation.MenuGenerator, error) {
	switch s.Kind {
	case menuGenExhaustive:
		return simulation.ExhaustiveMenuGenerator{}, nil
	case menuGenSampleWithReplacement:
		return simulation.SampleWithReplacementMenuGenerator{Count: s.SampleCount}, nil
	case menuGenCopycat:
		return simulation.CopycatMenuGenerator{Subject: s.CopycatSubject}, nil
	case menuGenBinary:
		return simulation.BinaryMenuGenerator{}, nil
	default:
		return nil, ErrUnknownGenerator
	}
}

// ChoiceGeneratorSpec is the wire representation of a
// simulation.ChoiceGenerator.
type ChoiceGeneratorSpec struct {
	Kind           byte
	Instance       model.Instance
	ForcedChoice   bool
	MultipleChoice bool
}

const (
	choiceGenInstance byte = iota
	choiceGenUniform
)

func (s ChoiceGeneratorSpec) encode(w io.Writer) error {
	if err := codec.WriteByte(w, s.Kind); err != nil {
		return err
	}
	switch s.Kind {
	case choiceGenInstance:
		return model.EncodeInstance(w, s.Instance)
	case choiceGenUniform:
		if err := codec.WriteBool(w, s.ForcedChoice); err != nil {
			return err
		}
		return codec.WriteBool(w, s.MultipleChoice)
	default:
		return nil
	}
}

func decodeChoiceGeneratorSpec(r io.Reader) (ChoiceGeneratorSpec, error) {
	kind, err := codec.ReadByte(r)
	if err != nil {
		return ChoiceGeneratorSpec{}, err
	}
	switch kind {
	case choiceGenInstance:
		inst, err := model.DecodeInstance(r)
		return ChoiceGeneratorSpec{Kind: kind, Instance: inst}, err
	case choiceGenUniform:
		forced, err := codec.ReadBool(r)
		if err != nil {
			return ChoiceGeneratorSpec{}, err
		}
		multi, err := codec.ReadBool(r)
		return ChoiceGeneratorSpec{Kind: kind, ForcedChoice: forced, MultipleChoice: multi}, err
	default:
		return ChoiceGeneratorSpec{}, ErrUnknownGenerator
	}
}

// Generator builds the concrete simulation.ChoiceGenerator s describes.
func (s ChoiceGeneratorSpec) Generator() (simulation.ChoiceGenerator, error) {
	switch s.Kind {
	case choiceGenInstance:
		return simulation.InstanceChoiceGenerator{Instance: s.Instance}, nil
	case choiceGenUniform:
		return simulation.UniformChoiceGenerator{ForcedChoice: s.ForcedChoice, MultipleChoice: s.MultipleChoice}, nil
	default:
		return nil, ErrUnknownGenerator
	}
}
