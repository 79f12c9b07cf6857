// Package significance compares a corpus's marker count with the count expected under a
// baseline ratio using a one-sample chi-square goodness-of-fit test over the two categories
// marker / non-marker (one degree of freedom).
package significance

import (
	"encoding/json"
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha is the significance threshold used when none is configured.
const DefaultAlpha = 0.05

var ErrEngineUnavailable = errors.New("statistical engine unavailable")

// Ratio is an observed/expected ratio. It is +Inf when nothing was expected, and is encoded
// as the JSON string "inf" in that case.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 1) {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(r))
}

// Result holds the outcome of one test. Nil fields were not computable; a zero-token corpus
// or an out-of-range input leaves every numeric field nil.
type Result struct {
	Computable       bool     `json:"computable"`
	Statistic        *float64 `json:"chi_square"`
	PValue           *float64 `json:"p_value"`
	Significant      *bool    `json:"significant"`
	ExpectedRatio    *float64 `json:"expected_anxiety_ratio"`
	ExpectedCount    *float64 `json:"expected_count"`
	ObservedExpected *Ratio   `json:"observed_expected_ratio"`
}

type Tester struct {
	engine bool
	alpha  float64
}

// NewTester returns a tester. engine reports whether the chi-square engine passed its startup
// check; without it only the deterministic fields are filled. alpha <= 0 selects DefaultAlpha.
func NewTester(engine bool, alpha float64) *Tester {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}
	return &Tester{engine: engine, alpha: alpha}
}

func (t *Tester) Engine() bool {
	return t.engine
}

func (t *Tester) Alpha() float64 {
	return t.alpha
}

// Test compares markerCount out of totalTokens with expectedRatio.
func (t *Tester) Test(totalTokens, markerCount int, expectedRatio float64) Result {
	var res Result
	if totalTokens <= 0 || markerCount < 0 || markerCount > totalTokens {
		return res
	}
	if math.IsNaN(expectedRatio) || expectedRatio < 0 || expectedRatio > 1 {
		return res
	}

	n := float64(totalTokens)
	expected := n * expectedRatio
	res.ExpectedRatio = &expectedRatio
	res.ExpectedCount = &expected
	ratio := Ratio(math.Inf(1))
	if expected != 0 {
		ratio = Ratio(float64(markerCount) / expected)
	}
	res.ObservedExpected = &ratio

	if !t.engine {
		return res
	}
	obs := []float64{float64(markerCount), n - float64(markerCount)}
	exp := []float64{expected, n * (1 - expectedRatio)}
	if exp[0] == 0 || exp[1] == 0 {
		return res
	}

	chi := stat.ChiSquare(obs, exp)
	p := distuv.ChiSquared{K: float64(len(obs) - 1)}.Survival(chi)
	sig := p < t.alpha
	res.Computable = true
	res.Statistic = &chi
	res.PValue = &p
	res.Significant = &sig
	return res
}

// CheckEngine verifies the chi-square distribution against a known critical value.
func CheckEngine() (err error) {
	defer func() {
		if recover() != nil {
			err = ErrEngineUnavailable
		}
	}()
	p := distuv.ChiSquared{K: 1}.Survival(3.841458820694124)
	if math.IsNaN(p) || math.Abs(p-0.05) > 1e-6 {
		return ErrEngineUnavailable
	}
	return nil
}

// EngineAvailable is CheckEngine as a capability flag.
func EngineAvailable() bool {
	return CheckEngine() == nil
}
