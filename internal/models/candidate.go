// Package models defines the data structures shared by the predictor components.
package models

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Candidate is one predicted next word with its confidence and explanation.
// Candidates are immutable once received from a prediction source.
type Candidate struct {
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence"`
	Analysis   string  `json:"analysis"`
}

// Validate reports whether the candidate carries every required field.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Word) == "" {
		return fmt.Errorf("candidate word is empty")
	}
	if math.IsNaN(c.Confidence) || math.IsInf(c.Confidence, 0) {
		return fmt.Errorf("candidate %q: confidence is not finite", c.Word)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("candidate %q: confidence %v outside [0,1]", c.Word, c.Confidence)
	}
	if strings.TrimSpace(c.Analysis) == "" {
		return fmt.Errorf("candidate %q: analysis is empty", c.Word)
	}
	return nil
}

// Percent formats the confidence as a percentage with two decimals.
func (c Candidate) Percent() string {
	return fmt.Sprintf("%.2f%%", c.Confidence*100)
}

// SortByConfidence orders candidates by descending confidence.
// Candidates with equal confidence keep their relative order.
func SortByConfidence(list []Candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Confidence > list[j].Confidence
	})
}

// Find returns the first candidate with the given word.
func Find(list []Candidate, word string) (Candidate, bool) {
	for _, c := range list {
		if c.Word == word {
			return c, true
		}
	}
	return Candidate{}, false
}
