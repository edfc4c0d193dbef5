package rpc

import (
	"io"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/consistency"
)

func altsToUint32(alts []alt.Alt) []uint32 {
	out := make([]uint32, len(alts))
	for i, a := range alts {
		out[i] = uint32(a)
	}
	return out
}

func uint32sToAlts(xs []uint32) []alt.Alt {
	out := make([]alt.Alt, len(xs))
	for i, x := range xs {
		out[i] = alt.Alt(x)
	}
	return out
}

func encodeAltSet(w io.Writer, s altset.AltSet) error {
	return codec.WriteUint32Slice(w, altsToUint32(s.Alts()))
}

func decodeAltSet(r io.Reader) (altset.AltSet, error) {
	xs, err := codec.ReadUint32Slice(r)
	if err != nil {
		return altset.AltSet{}, err
	}
	return altset.FromAlts(uint32sToAlts(xs)...), nil
}

func encodeCycle(w io.Writer, c consistency.Cycle) error {
	return codec.WriteUint32Slice(w, altsToUint32([]alt.Alt(c)))
}

func encodeAltSetSlice(w io.Writer, ss []altset.AltSet) error {
	if err := codec.WriteUint64(w, uint64(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := encodeAltSet(w, s); err != nil {
			return err
		}
	}
	return nil
}

// encodeViolations writes the full deterministic-consistency result.
func encodeViolations(w io.Writer, v *consistency.Violations) error {
	if err := codec.WriteUint64(w, uint64(len(v.Cycles))); err != nil {
		return err
	}
	for _, c := range v.Cycles {
		if err := encodeCycle(w, c); err != nil {
			return err
		}
	}

	if err := codec.WriteUint64(w, uint64(len(v.Rows))); err != nil {
		return err
	}
	for _, row := range v.Rows {
		if err := codec.WriteUint64(w, uint64(row.Length)); err != nil {
			return err
		}
		if err := codec.WriteBigUint(w, row.SARP); err != nil {
			return err
		}
		if err := codec.WriteBigUint(w, row.GARP); err != nil {
			return err
		}
		ids := make([]uint32, len(row.CycleIDs))
		for i, id := range row.CycleIDs {
			ids[i] = uint32(id)
		}
		if err := codec.WriteUint32Slice(w, ids); err != nil {
			return err
		}
	}

	if err := codec.WriteBigUint(w, v.WARP); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, uint64(v.WARPPairs)); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, uint64(v.ContractionPairs)); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, uint64(v.ContractionAll)); err != nil {
		return err
	}

	if err := codec.WriteUint64(w, uint64(len(v.BinaryIntransitivities))); err != nil {
		return err
	}
	for _, row := range v.BinaryIntransitivities {
		if err := codec.WriteUint64(w, uint64(row.Length)); err != nil {
			return err
		}
		if err := codec.WriteBigUint(w, row.Multiplier); err != nil {
			return err
		}
	}

	if err := codec.WriteUint64(w, uint64(len(v.TupleIntransitivities))); err != nil {
		return err
	}
	for _, row := range v.TupleIntransitivities {
		if err := codec.WriteUint64(w, uint64(row.Length)); err != nil {
			return err
		}
		if err := encodeAltSetSlice(w, row.Menus); err != nil {
			return err
		}
		if err := encodeAltSetSlice(w, row.Alts); err != nil {
			return err
		}
	}

	if err := codec.WriteUint64(w, uint64(v.HoutmanMaksLower)); err != nil {
		return err
	}
	return codec.WriteUint64(w, uint64(v.HoutmanMaksUpper))
}

// encodeStochasticResult writes the combined stochastic-transitivity and
// regularity result.
func encodeStochasticResult(w io.Writer, stv []consistency.StochasticTransitivityViolation, reg []consistency.RegularityViolation) error {
	if err := codec.WriteUint64(w, uint64(len(stv))); err != nil {
		return err
	}
	for _, v := range stv {
		if err := codec.WriteUint32(w, uint32(v.A)); err != nil {
			return err
		}
		if err := codec.WriteUint32(w, uint32(v.B)); err != nil {
			return err
		}
		if err := codec.WriteUint32(w, uint32(v.C)); err != nil {
			return err
		}
		if err := codec.WriteBool(w, v.Weak); err != nil {
			return err
		}
		if err := codec.WriteBool(w, v.Moderate); err != nil {
			return err
		}
		if err := codec.WriteBool(w, v.Strong); err != nil {
			return err
		}
	}

	if err := codec.WriteUint64(w, uint64(len(reg))); err != nil {
		return err
	}
	for _, v := range reg {
		if err := codec.WriteUint32(w, uint32(v.Alt)); err != nil {
			return err
		}
		if err := encodeAltSet(w, altset.FromAlts(mapKeys(v.SmallMenu)...)); err != nil {
			return err
		}
		if err := encodeAltSet(w, altset.FromAlts(mapKeys(v.BigMenu)...)); err != nil {
			return err
		}
		if err := codec.WriteBigRat(w, v.FreqSmall); err != nil {
			return err
		}
		if err := codec.WriteBigRat(w, v.FreqBig); err != nil {
			return err
		}
	}
	return nil
}

func mapKeys(m map[alt.Alt]bool) []alt.Alt {
	out := make([]alt.Alt, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	return out
}
