package domain

import "fmt"

type Prediction struct {
	CategoryID int    `json:"category_id"`
	Category   string `json:"category"`
	Known      bool   `json:"-"`
}

func NewPrediction(categoryID int) Prediction {
	label, known := CategoryLabel(categoryID)
	return Prediction{
		CategoryID: categoryID,
		Category:   label,
		Known:      known,
	}
}

func (p Prediction) Message() string {
	return fmt.Sprintf("Predicted category: %s", p.Category)
}

// FeatureVector is a sparse row with sorted, unique indices below Dim.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}
