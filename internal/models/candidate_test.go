package models

import (
	"math"
	"testing"
)

func TestCandidateValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Candidate
		wantErr bool
	}{
		{"valid", Candidate{Word: "cielo", Confidence: 0.9, Analysis: "x"}, false},
		{"zero confidence", Candidate{Word: "cielo", Confidence: 0, Analysis: "x"}, false},
		{"full confidence", Candidate{Word: "cielo", Confidence: 1, Analysis: "x"}, false},
		{"blank word", Candidate{Word: "  ", Confidence: 0.5, Analysis: "x"}, true},
		{"negative confidence", Candidate{Word: "a", Confidence: -0.1, Analysis: "x"}, true},
		{"confidence above one", Candidate{Word: "a", Confidence: 1.01, Analysis: "x"}, true},
		{"nan confidence", Candidate{Word: "a", Confidence: math.NaN(), Analysis: "x"}, true},
		{"missing analysis", Candidate{Word: "a", Confidence: 0.2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSortByConfidence(t *testing.T) {
	list := []Candidate{
		{Word: "campo", Confidence: 0.4},
		{Word: "cielo", Confidence: 0.9},
		{Word: "mar", Confidence: 0.4},
		{Word: "horizonte", Confidence: 0.6},
	}
	SortByConfidence(list)

	want := []string{"cielo", "horizonte", "campo", "mar"}
	for i, w := range want {
		if list[i].Word != w {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Word, w)
		}
	}
}

func TestFind(t *testing.T) {
	list := []Candidate{{Word: "cielo"}, {Word: "campo"}}

	got, ok := Find(list, "campo")
	if !ok || got.Word != "campo" {
		t.Errorf("Find(campo) = %v, %v", got, ok)
	}
	if _, ok := Find(list, "mar"); ok {
		t.Error("Find(mar) should not match")
	}
	if _, ok := Find(nil, "mar"); ok {
		t.Error("Find on nil list should not match")
	}
}

func TestPercent(t *testing.T) {
	if got := (Candidate{Confidence: 0.9}).Percent(); got != "90.00%" {
		t.Errorf("Percent() = %q", got)
	}
	if got := (Candidate{Confidence: 0.4}).Percent(); got != "40.00%" {
		t.Errorf("Percent() = %q", got)
	}
}
