package control

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qhse/qcsync/internal/model"
)

func measurement(value, min, max float64) model.Measurement {
	return model.Measurement{Value: value, MinThreshold: min, MaxThreshold: max}
}

func TestEvaluateAllWithinBounds(t *testing.T) {
	e := NewEvaluator()

	got := e.Evaluate(map[model.ControlParameter]model.Measurement{
		model.ParameterPH:   measurement(4.2, 3.5, 4.5),
		model.ParameterBrix: measurement(12.5, 10, 14),
	})

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, model.VerdictConforme, got.Verdict)
	assert.True(t, got.Measurements[model.ParameterPH].WithinBounds)
	assert.True(t, got.Measurements[model.ParameterBrix].WithinBounds)
}

func TestEvaluateBoundsInclusive(t *testing.T) {
	e := NewEvaluator()

	got := e.Evaluate(map[model.ControlParameter]model.Measurement{
		model.ParameterPH:   measurement(3.5, 3.5, 4.5),
		model.ParameterTemp: measurement(85, 60, 85),
	})

	// Values sitting exactly on a bound are conform.
	assert.Equal(t, model.VerdictConforme, got.Verdict)
	assert.Equal(t, 100, got.Score)
}

func TestEvaluateVerdictPartition(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name    string
		values  []float64 // against window [0, 10]
		score   int
		verdict model.ConformityVerdict
	}{
		{"all compliant", []float64{1, 5, 10}, 100, model.VerdictConforme},
		{"none compliant", []float64{-1, 11, 20}, 0, model.VerdictNonConforme},
		{"partial", []float64{5, 11}, 50, model.VerdictSousReserve},
		{"mostly compliant stays partial", []float64{1, 2, 3, 11}, 75, model.VerdictSousReserve},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			measurements := make(map[model.ControlParameter]model.Measurement, len(tt.values))
			for i, v := range tt.values {
				key := model.ControlParameter(rune('A' + i))
				measurements[key] = measurement(v, 0, 10)
			}

			got := e.Evaluate(measurements)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.verdict, got.Verdict)
		})
	}
}

func TestEvaluateManualOverride(t *testing.T) {
	e := NewEvaluator()
	conform := true
	nonConform := false

	got := e.Evaluate(map[model.ControlParameter]model.Measurement{
		// No configured window: operator declared it conform.
		model.ParameterViscosity: {Value: 3.1, ManualOverride: &conform},
		// Override wins even against a passing numeric comparison.
		model.ParameterPH: {Value: 4.0, MinThreshold: 3.5, MaxThreshold: 4.5, ManualOverride: &nonConform},
	})

	assert.True(t, got.Measurements[model.ParameterViscosity].WithinBounds)
	assert.False(t, got.Measurements[model.ParameterPH].WithinBounds)
	assert.Equal(t, 50, got.Score)
	assert.Equal(t, model.VerdictSousReserve, got.Verdict)
}

func TestEvaluateEmptySet(t *testing.T) {
	e := NewEvaluator()

	got := e.Evaluate(nil)

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, model.VerdictNonConforme, got.Verdict)
	assert.Empty(t, got.Measurements)
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	e := NewEvaluator()

	in := map[model.ControlParameter]model.Measurement{
		model.ParameterPH: measurement(4.0, 3.5, 4.5),
	}
	_ = e.Evaluate(in)

	assert.False(t, in[model.ParameterPH].WithinBounds)
}
