package model

import (
	"io"

	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/preorder"
)

func writeMaskBlock(w io.Writer, mask altset.AltSet) error {
	blocks := mask.Blocks()
	var raw altset.Block
	if len(blocks) > 0 {
		raw = blocks[0]
	}
	return codec.WriteUint32(w, raw)
}

func readMaskBlock(r io.Reader) (altset.AltSet, error) {
	raw, err := codec.ReadUint32(r)
	if err != nil {
		return altset.AltSet{}, err
	}
	return altset.FromBlock(raw), nil
}

func writeBoolOption(w io.Writer, v *bool) error {
	return codec.WriteOption(w, v, func(w io.Writer, b bool) error { return codec.WriteBool(w, b) })
}

func readBoolOption(r io.Reader) (*bool, error) {
	return codec.ReadOption(r, func(r io.Reader) (bool, error) { return codec.ReadBool(r) })
}

// Encode writes p to w.
func (p PreorderParams) Encode(w io.Writer) error {
	if err := writeBoolOption(w, p.Strict); err != nil {
		return err
	}
	return writeBoolOption(w, p.Total)
}

// DecodePreorderParams reads a value written by PreorderParams.Encode.
func DecodePreorderParams(r io.Reader) (PreorderParams, error) {
	strict, err := readBoolOption(r)
	if err != nil {
		return PreorderParams{}, err
	}
	total, err := readBoolOption(r)
	if err != nil {
		return PreorderParams{}, err
	}
	return PreorderParams{Strict: strict, Total: total}, nil
}

// Encode writes m to w as a tag byte followed by its parameters.
func Encode(w io.Writer, m Model) error {
	if err := codec.WriteByte(w, m.modelTag()); err != nil {
		return err
	}
	switch mv := m.(type) {
	case PreorderMaximizationModel:
		return mv.Params.Encode(w)
	case UnattractivenessModel:
		return mv.Params.Encode(w)
	case UndominatedChoiceModel:
		return codec.WriteBool(w, mv.Strict)
	case PartiallyDominantChoiceModel:
		return codec.WriteBool(w, mv.FallbackToFull)
	case StatusQuoUndominatedChoiceModel:
		return nil
	case OverloadModel:
		return mv.Params.Encode(w)
	case TopTwoModel:
		return nil
	case SequentiallyRationalizableChoiceModel:
		return nil
	case HybridDominationModel:
		return codec.WriteBool(w, mv.Strict)
	default:
		return ErrUnknownModel
	}
}

// Decode reads a value written by Encode.
func Decode(r io.Reader) (Model, error) {
	tag, err := codec.ReadByte(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		p, err := DecodePreorderParams(r)
		if err != nil {
			return nil, err
		}
		return PreorderMaximizationModel{Params: p}, nil
	case 1:
		p, err := DecodePreorderParams(r)
		if err != nil {
			return nil, err
		}
		return UnattractivenessModel{Params: p}, nil
	case 2:
		strict, err := codec.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return UndominatedChoiceModel{Strict: strict}, nil
	case 3:
		fb, err := codec.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return PartiallyDominantChoiceModel{FallbackToFull: fb}, nil
	case 4:
		return StatusQuoUndominatedChoiceModel{}, nil
	case 5:
		p, err := DecodePreorderParams(r)
		if err != nil {
			return nil, err
		}
		return OverloadModel{Params: p}, nil
	case 6:
		return TopTwoModel{}, nil
	case 7:
		return SequentiallyRationalizableChoiceModel{}, nil
	case 8:
		strict, err := codec.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return HybridDominationModel{Strict: strict}, nil
	default:
		return nil, codec.ErrBadEnumTag
	}
}

// EncodeInstance writes inst to w as a tag byte followed by its relation(s)
// and parameters.
func EncodeInstance(w io.Writer, inst Instance) error {
	if err := codec.WriteByte(w, inst.instanceTag()); err != nil {
		return err
	}
	switch iv := inst.(type) {
	case PreorderMaximizationInstance:
		return iv.P.Encode(w)
	case UnattractivenessInstance:
		if err := iv.P.Encode(w); err != nil {
			return err
		}
		return writeMaskBlock(w, iv.Mask)
	case UndominatedChoiceInstance:
		return iv.P.Encode(w)
	case PartiallyDominantChoiceInstance:
		if err := iv.P.Encode(w); err != nil {
			return err
		}
		return codec.WriteBool(w, iv.FallbackToFull)
	case StatusQuoUndominatedChoiceInstance:
		return iv.P.Encode(w)
	case OverloadInstance:
		if err := iv.P.Encode(w); err != nil {
			return err
		}
		return codec.WriteUint32(w, iv.Limit)
	case TopTwoInstance:
		return iv.P.Encode(w)
	case SequentiallyRationalizableChoiceInstance:
		if err := iv.P.Encode(w); err != nil {
			return err
		}
		return iv.Q.Encode(w)
	case HybridDominationInstance:
		return iv.P.Encode(w)
	default:
		return ErrUnknownModel
	}
}

// DecodeInstance reads a value written by EncodeInstance.
func DecodeInstance(r io.Reader) (Instance, error) {
	tag, err := codec.ReadByte(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		return PreorderMaximizationInstance{P: p}, nil
	case 1:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		mask, err := readMaskBlock(r)
		if err != nil {
			return nil, err
		}
		return UnattractivenessInstance{P: p, Mask: mask}, nil
	case 2:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		return UndominatedChoiceInstance{P: p}, nil
	case 3:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		fb, err := codec.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return PartiallyDominantChoiceInstance{P: p, FallbackToFull: fb}, nil
	case 4:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		return StatusQuoUndominatedChoiceInstance{P: p}, nil
	case 5:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		limit, err := codec.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		return OverloadInstance{P: p, Limit: limit}, nil
	case 6:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		return TopTwoInstance{P: p}, nil
	case 7:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		q, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		return SequentiallyRationalizableChoiceInstance{P: p, Q: q}, nil
	case 8:
		p, err := preorder.Decode(r)
		if err != nil {
			return nil, err
		}
		return HybridDominationInstance{P: p}, nil
	default:
		return nil, codec.ErrBadEnumTag
	}
}

// Encode writes pen to w.
func (pen Penalty) Encode(w io.Writer) error {
	if err := codec.WriteBigRat(w, pen.LowerBound); err != nil {
		return err
	}
	return codec.WriteBigRat(w, pen.UpperBound)
}

// DecodePenalty reads a value written by Penalty.Encode.
func DecodePenalty(r io.Reader) (Penalty, error) {
	lo, err := codec.ReadBigRat(r)
	if err != nil {
		return Penalty{}, err
	}
	hi, err := codec.ReadBigRat(r)
	if err != nil {
		return Penalty{}, err
	}
	return Penalty{LowerBound: lo, UpperBound: hi}, nil
}
