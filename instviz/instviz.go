// Package instviz renders a base64-encoded model.Instance blob as a poset
// graph suitable for display: vertices are equivalence classes of
// alternatives, edges point from a class to the classes directly above it.
package instviz

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strconv"

	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
)

// ErrSRCUnsupported is returned for a SequentiallyRationalizableChoice
// instance: visualizing two simultaneous relations as one poset graph is
// out of scope.
var ErrSRCUnsupported = errors.New("instviz: SequentiallyRationalizableChoice is not supported")

// GraphRepr is one relation's poset graph: Vertices are the relation's
// equivalence classes, and each entry of Edges is a (from, to) pair of
// classes with to directly above from.
type GraphRepr struct {
	Vertices []altset.AltSet
	Edges    [][2]altset.AltSet
}

func graphRepr(p preorder.Preorder) GraphRepr {
	g := p.ToPosetGraph()
	repr := GraphRepr{Vertices: g.Vertices}
	for _, e := range g.Edges {
		repr.Edges = append(repr.Edges, [2]altset.AltSet{g.Vertices[e[0]], g.Vertices[e[1]]})
	}
	return repr
}

// ExtraInfo is one (label, value) pair of supplementary information about
// an instance that doesn't fit into its poset graph (e.g. Overload's
// threshold).
type ExtraInfo struct {
	Label string
	Value string
}

// Response is the rendering of one instance: one graph per underlying
// relation (always one, except this package never produces an SRC
// response at all) plus any extra labelled info.
type Response struct {
	Graphs    []GraphRepr
	ExtraInfo []ExtraInfo
}

// Render decodes instanceCode (base64 of a model.Instance wire encoding)
// and renders its poset graph(s).
func Render(instanceCode string) (Response, error) {
	blob, err := base64.StdEncoding.DecodeString(instanceCode)
	if err != nil {
		return Response{}, err
	}
	inst, err := model.DecodeInstance(bytes.NewReader(blob))
	if err != nil {
		return Response{}, err
	}
	return render(inst)
}

func render(inst model.Instance) (Response, error) {
	switch i := inst.(type) {
	case model.PreorderMaximizationInstance:
		return Response{Graphs: []GraphRepr{graphRepr(i.P)}}, nil

	case model.UnattractivenessInstance:
		return Response{Graphs: []GraphRepr{graphRepr(i.P)}}, nil

	case model.UndominatedChoiceInstance:
		return Response{Graphs: []GraphRepr{graphRepr(i.P)}}, nil

	case model.PartiallyDominantChoiceInstance:
		return Response{Graphs: []GraphRepr{graphRepr(i.P)}}, nil

	case model.StatusQuoUndominatedChoiceInstance:
		return Response{Graphs: []GraphRepr{graphRepr(i.P)}}, nil

	case model.OverloadInstance:
		return Response{
			Graphs: []GraphRepr{graphRepr(i.P)},
			ExtraInfo: []ExtraInfo{
				{Label: "Threshold", Value: strconv.Itoa(int(i.Limit))},
			},
		}, nil

	case model.TopTwoInstance:
		return Response{Graphs: []GraphRepr{graphRepr(i.P)}}, nil

	case model.HybridDominationInstance:
		return Response{Graphs: []GraphRepr{graphRepr(i.P)}}, nil

	case model.SequentiallyRationalizableChoiceInstance:
		return Response{}, ErrSRCUnsupported

	default:
		panic("instviz: unhandled instance type")
	}
}
