package rpc_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/rpc"
	"github.com/prestsoftware/prest/subject"
)

func newEnv() *rpc.Env {
	return &rpc.Env{Precomputed: preorder.NewPrecomputed(nil)}
}

// runOne sends a single action frame through a StreamServer and returns
// the one response frame it wrote back.
func runOne(t *testing.T, env *rpc.Env, a rpc.Action) (kind byte, payload []byte) {
	t.Helper()

	var in bytes.Buffer
	require.NoError(t, rpc.WriteActionFrame(&in, a))

	var out bytes.Buffer
	s := rpc.NewStreamServer(&in, &out, env)
	require.NoError(t, s.Serve())

	blob, err := codec.ReadBytes(&out)
	require.NoError(t, err)
	require.NotEmpty(t, blob)
	return blob[0], blob[1:]
}

func TestStreamServerEchoesBackTheAnswer(t *testing.T) {
	t.Parallel()

	kind, payload := runOne(t, newEnv(), rpc.EchoAction{Message: "ping"})
	require.Equal(t, byte(1), kind) // msgAnswer
	got, err := codec.ReadString(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, "ping", got)
}

func TestStreamServerReturnsErrorFrameForUnknownInstanceBlob(t *testing.T) {
	t.Parallel()

	kind, _ := runOne(t, newEnv(), rpc.InstVizAction{InstanceCode: "not base64!!"})
	require.Equal(t, byte(2), kind) // msgErr
}

func TestStreamServerRunsIntegrityCheck(t *testing.T) {
	t.Parallel()

	s := subject.Subject{
		Name:         "alice",
		Alternatives: []string{"a", "b"},
		Choices: []subject.ChoiceRow{
			{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))},
			{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(1))},
		},
	}
	kind, payload := runOne(t, newEnv(), rpc.IntegrityCheckAction{Subject: s})
	require.Equal(t, byte(1), kind)
	n, err := codec.ReadUint64(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, uint64(1), n) // the repeated menu {a,b}
}

func TestStreamServerRunsEstimation(t *testing.T) {
	t.Parallel()

	s := subject.Subject{
		Name:         "alice",
		Alternatives: []string{"a", "b"},
		Choices: []subject.ChoiceRow{
			{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))},
		},
	}
	strictTotal := true
	action := rpc.EstimationAction{
		Subjects:      []subject.Subject{s},
		Models:        []model.Model{model.PreorderMaximizationModel{Params: model.FromPreorderShape(strictTotal, strictTotal)}},
		DistanceScore: model.DistanceHoutmanMaks,
	}
	kind, payload := runOne(t, newEnv(), action)
	require.Equal(t, byte(1), kind)
	n, err := codec.ReadUint64(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
}

func TestStreamServerRunsSimulation(t *testing.T) {
	t.Parallel()

	action := rpc.SimulateAction{
		Name:         "-sim",
		Alternatives: []string{"a", "b", "c"},
		MenuGen:      rpc.MenuGeneratorSpec{Kind: 0}, // exhaustive
		ChoiceGen:    rpc.ChoiceGeneratorSpec{Kind: 1, ForcedChoice: true},
	}
	kind, payload := runOne(t, newEnv(), action)
	require.Equal(t, byte(1), kind)
	got, err := subject.DecodeSubject(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, got.Choices, 7) // 2^3 - 1
}

func TestStreamServerQuitStopsTheLoop(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	require.NoError(t, rpc.WriteActionFrame(&in, rpc.QuitAction{}))
	require.NoError(t, rpc.WriteActionFrame(&in, rpc.EchoAction{Message: "never reached"}))

	var out bytes.Buffer
	s := rpc.NewStreamServer(&in, &out, newEnv())
	require.NoError(t, s.Serve())

	// Only the Quit's own answer frame should have been written.
	_, err := codec.ReadBytes(&out)
	require.NoError(t, err)
	_, err = codec.ReadBytes(&out)
	require.Error(t, err)
}
