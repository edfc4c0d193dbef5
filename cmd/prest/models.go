package main

import (
	"fmt"
	"strings"

	"github.com/prestsoftware/prest/model"
)

// parseModels turns a comma-separated list of model names into concrete
// model.Model values, using a strict-total preorder shape, Strict: true and
// FallbackToFull: false as the default parameterization — the CLI surface intentionally
// doesn't expose the full PreorderParams tri-state; a caller wanting finer
// control drives the rpc package's EstimationAction directly instead.
func parseModels(names []string) ([]model.Model, error) {
	strictTotal := model.FromPreorderShape(true, true)

	var out []model.Model
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		switch name {
		case "preorder-maximization":
			out = append(out, model.PreorderMaximizationModel{Params: strictTotal})
		case "unattractiveness":
			out = append(out, model.UnattractivenessModel{Params: strictTotal})
		case "undominated-choice":
			out = append(out, model.UndominatedChoiceModel{Strict: true})
		case "partially-dominant-choice":
			out = append(out, model.PartiallyDominantChoiceModel{FallbackToFull: false})
		case "status-quo-undominated-choice":
			out = append(out, model.StatusQuoUndominatedChoiceModel{})
		case "overload":
			out = append(out, model.OverloadModel{Params: strictTotal})
		case "top-two":
			out = append(out, model.TopTwoModel{})
		case "sequentially-rationalizable":
			out = append(out, model.SequentiallyRationalizableChoiceModel{})
		case "hybrid-domination":
			out = append(out, model.HybridDominationModel{Strict: true})
		default:
			return nil, fmt.Errorf("unknown model %q", name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one --model is required")
	}
	return out, nil
}

func parseDistanceScore(s string) (model.DistanceScore, error) {
	switch s {
	case "", "houtman-maks":
		return model.DistanceHoutmanMaks, nil
	case "jaccard":
		return model.DistanceJaccard, nil
	default:
		return 0, fmt.Errorf("unknown distance score %q", s)
	}
}

// instanceKind names an instance's model family, for human-readable
// estimate/aggregate output.
func instanceKind(inst model.Instance) string {
	switch inst.(type) {
	case model.PreorderMaximizationInstance:
		return "preorder-maximization"
	case model.UnattractivenessInstance:
		return "unattractiveness"
	case model.UndominatedChoiceInstance:
		return "undominated-choice"
	case model.PartiallyDominantChoiceInstance:
		return "partially-dominant-choice"
	case model.StatusQuoUndominatedChoiceInstance:
		return "status-quo-undominated-choice"
	case model.OverloadInstance:
		return "overload"
	case model.TopTwoInstance:
		return "top-two"
	case model.SequentiallyRationalizableChoiceInstance:
		return "sequentially-rationalizable"
	case model.HybridDominationInstance:
		return "hybrid-domination"
	default:
		return fmt.Sprintf("%T", inst)
	}
}
