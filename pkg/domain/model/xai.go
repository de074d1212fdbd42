package model

import "github.com/secmon-lab/warden/pkg/domain/types"

// ShapValue is one feature contribution of a SHAP-style explanation
type ShapValue struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// XAIExplanation is the explainability payload for an alert: per-feature SHAP
// contributions plus a LIME-style narrative summary
type XAIExplanation struct {
	ShapValues  []ShapValue `json:"shap_values"`
	LimeSummary string      `json:"lime_summary"`
}

// Drone is a simulated autonomous security drone shown on the virtual SOC view
type Drone struct {
	ID       string            `json:"id"`
	Status   types.DroneStatus `json:"status"`
	Location string            `json:"location"`
	Battery  int               `json:"battery"`
}
