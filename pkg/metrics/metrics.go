// Package metrics defines the evaluation records written once per trained
// estimator.
package metrics

import "github.com/EgorovM/itmo-mlops-2025/pkg/model"

// Classification scores one classifier on the validation set.
type Classification struct {
	ModelName string  `json:"model_name"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Regression scores one regressor on the validation set.
type Regression struct {
	ModelName string  `json:"model_name"`
	MSE       float64 `json:"mse"`
	RMSE      float64 `json:"rmse"`
	MAE       float64 `json:"mae"`
	R2        float64 `json:"r2"`
}

// Value is one named score of a record.
type Value struct {
	Metric string
	Score  float64
}

// Record is implemented by both record kinds.
type Record interface {
	Name() string
	Values() []Value
}

func (c Classification) Name() string { return c.ModelName }

func (c Classification) Values() []Value {
	return []Value{{"accuracy", c.Accuracy}, {"precision", c.Precision}, {"recall", c.Recall}, {"f1", c.F1}}
}

func (r Regression) Name() string { return r.ModelName }

func (r Regression) Values() []Value {
	return []Value{{"mse", r.MSE}, {"rmse", r.RMSE}, {"mae", r.MAE}, {"r2", r.R2}}
}

// Classify scores binary predictions.
func Classify(name string, yTrue, yPred []float64) Classification {
	p, r, f1 := model.PrecisionRecallF1(yTrue, yPred)
	return Classification{
		ModelName: name,
		Accuracy:  model.Accuracy(yTrue, yPred),
		Precision: p,
		Recall:    r,
		F1:        f1,
	}
}

// Regress scores continuous predictions.
func Regress(name string, yTrue, yPred []float64) Regression {
	return Regression{
		ModelName: name,
		MSE:       model.MSE(yTrue, yPred),
		RMSE:      model.RMSE(yTrue, yPred),
		MAE:       model.MAE(yTrue, yPred),
		R2:        model.R2(yTrue, yPred),
	}
}

// Records adapts a typed slice to []Record.
func Records[T Record](in []T) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}
