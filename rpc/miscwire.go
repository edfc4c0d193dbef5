package rpc

import (
	"io"

	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/instviz"
	"github.com/prestsoftware/prest/integrity"
)

func encodeIntegrityIssues(w io.Writer, issues []integrity.Issue) error {
	if err := codec.WriteUint64(w, uint64(len(issues))); err != nil {
		return err
	}
	for _, iss := range issues {
		if err := codec.WriteByte(w, byte(iss.Kind)); err != nil {
			return err
		}
		if err := encodeAltSet(w, iss.Menu); err != nil {
			return err
		}
		if err := codec.WriteUint32(w, uint32(iss.Alt)); err != nil {
			return err
		}
	}
	return nil
}

func encodeGraphRepr(w io.Writer, g instviz.GraphRepr) error {
	if err := encodeAltSetSlice(w, g.Vertices); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, uint64(len(g.Edges))); err != nil {
		return err
	}
	for _, e := range g.Edges {
		if err := encodeAltSet(w, e[0]); err != nil {
			return err
		}
		if err := encodeAltSet(w, e[1]); err != nil {
			return err
		}
	}
	return nil
}

func encodeInstVizResponse(w io.Writer, resp instviz.Response) error {
	if err := codec.WriteUint64(w, uint64(len(resp.Graphs))); err != nil {
		return err
	}
	for _, g := range resp.Graphs {
		if err := encodeGraphRepr(w, g); err != nil {
			return err
		}
	}
	if err := codec.WriteUint64(w, uint64(len(resp.ExtraInfo))); err != nil {
		return err
	}
	for _, ei := range resp.ExtraInfo {
		if err := codec.WriteString(w, ei.Label); err != nil {
			return err
		}
		if err := codec.WriteString(w, ei.Value); err != nil {
			return err
		}
	}
	return nil
}
