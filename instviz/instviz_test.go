package instviz_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/instviz"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
)

func encode(t *testing.T, inst model.Instance) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, model.EncodeInstance(&buf, inst))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRenderPreorderMaximizationProducesOneGraph(t *testing.T) {
	t.Parallel()

	inst := model.PreorderMaximizationInstance{P: preorder.FromValues([]int{0, 1})}
	resp, err := instviz.Render(encode(t, inst))
	require.NoError(t, err)
	require.Len(t, resp.Graphs, 1)
}

func TestRenderOverloadIncludesThresholdExtraInfo(t *testing.T) {
	t.Parallel()

	inst := model.OverloadInstance{P: preorder.FromValues([]int{0, 1}), Limit: 3}
	resp, err := instviz.Render(encode(t, inst))
	require.NoError(t, err)
	require.Len(t, resp.ExtraInfo, 1)
	require.Equal(t, "Threshold", resp.ExtraInfo[0].Label)
	require.Equal(t, "3", resp.ExtraInfo[0].Value)
}

func TestRenderSRCInstanceIsUnsupported(t *testing.T) {
	t.Parallel()

	inst := model.SequentiallyRationalizableChoiceInstance{
		P: preorder.FromValues([]int{0, 1}),
		Q: preorder.FromValues([]int{1, 0}),
	}
	_, err := instviz.Render(encode(t, inst))
	require.ErrorIs(t, err, instviz.ErrSRCUnsupported)
}

func TestRenderRejectsInvalidBase64(t *testing.T) {
	t.Parallel()

	_, err := instviz.Render("not valid base64!!")
	require.Error(t, err)
}
