package rpc

import (
	"io"

	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/estimation"
	"github.com/prestsoftware/prest/model"
)

// EstimationResultWire is the wire-transported form of an
// estimation.Result: this package owns its Encode/Decode since estimation
// stays free of transport concerns, same as codec ownership elsewhere in
// this module.
type EstimationResultWire = estimation.Result

func encodeEstimationResult(w io.Writer, res estimation.Result) error {
	if err := codec.WriteString(w, res.SubjectName); err != nil {
		return err
	}
	if err := res.Best.Encode(w); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, uint64(len(res.Instances))); err != nil {
		return err
	}
	for _, inst := range res.Instances {
		if err := model.EncodeInstance(w, inst); err != nil {
			return err
		}
	}
	return nil
}

func decodeEstimationResultWire(r io.Reader) (estimation.Result, error) {
	name, err := codec.ReadString(r)
	if err != nil {
		return estimation.Result{}, err
	}
	best, err := model.DecodePenalty(r)
	if err != nil {
		return estimation.Result{}, err
	}
	n, err := codec.ReadUint64(r)
	if err != nil {
		return estimation.Result{}, err
	}
	instances := make([]model.Instance, n)
	for i := range instances {
		instances[i], err = model.DecodeInstance(r)
		if err != nil {
			return estimation.Result{}, err
		}
	}
	return estimation.Result{SubjectName: name, Best: best, Instances: instances}, nil
}
