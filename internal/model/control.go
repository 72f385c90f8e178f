package model

import "time"

// ControlParameter identifies one measured process parameter. The set is
// open-ended (new lines add new probes), so unlike the Ishikawa categories it
// is not a closed enumeration.
type ControlParameter string

const (
	ParameterPH        ControlParameter = "PH"
	ParameterBrix      ControlParameter = "BRIX"
	ParameterTemp      ControlParameter = "TEMPERATURE"
	ParameterViscosity ControlParameter = "VISCOSITY"
	ParameterPressure  ControlParameter = "PRESSURE"
	ParameterFlowRate  ControlParameter = "FLOW_RATE"
)

// Measurement is one measured value with its acceptance window. Both bounds
// are inclusive. ManualOverride, when set, takes precedence over the numeric
// comparison; the operator can declare a parameter conform (or not) when no
// acceptance window is configured. WithinBounds is derived by the evaluator.
type Measurement struct {
	Value          float64 `json:"value"`
	MinThreshold   float64 `json:"min_threshold"`
	MaxThreshold   float64 `json:"max_threshold"`
	ManualOverride *bool   `json:"manual_override,omitempty"`
	WithinBounds   bool    `json:"within_bounds"`
}

// ProductionControlRecord is the input snapshot of one production or
// reception control event.
type ProductionControlRecord struct {
	ID                 string                           `json:"id"`
	LotReference       string                           `json:"lot_reference,omitempty"`
	ControlledAt       time.Time                        `json:"controlled_at"`
	MeasuredParameters map[ControlParameter]Measurement `json:"measured_parameters"`
}

// ControlEvaluation is the derived outcome of a control snapshot.
type ControlEvaluation struct {
	Score        int                              `json:"score"`
	Verdict      ConformityVerdict                `json:"verdict"`
	Measurements map[ControlParameter]Measurement `json:"measurements"`
}
