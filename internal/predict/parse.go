package predict

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/medinalabs/neuropredictor/internal/models"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const payloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["predictions"],
  "properties": {
    "predictions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["word", "confidence", "analysis"],
        "properties": {
          "word": {"type": "string", "minLength": 1},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1},
          "analysis": {"type": "string"}
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("predictions.schema.json", payloadSchema)

type payload struct {
	Predictions []models.Candidate `json:"predictions"`
}

// ParseCandidates validates a model reply and returns at most MaxCandidates
// distinct candidates sorted by descending confidence. When two candidates
// share a word, the more confident one is kept.
func ParseCandidates(raw string) ([]models.Candidate, error) {
	body := stripCodeFence(raw)

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %w", ErrPredictionUnavailable, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: reply does not match schema: %w", ErrPredictionUnavailable, err)
	}

	var p payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("%w: decode predictions: %w", ErrPredictionUnavailable, err)
	}

	byWord := make(map[string]int, len(p.Predictions))
	out := make([]models.Candidate, 0, len(p.Predictions))
	for _, c := range p.Predictions {
		c.Word = strings.TrimSpace(c.Word)
		c.Analysis = strings.TrimSpace(c.Analysis)
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPredictionUnavailable, err)
		}
		if i, seen := byWord[c.Word]; seen {
			if c.Confidence > out[i].Confidence {
				out[i] = c
			}
			continue
		}
		byWord[c.Word] = len(out)
		out = append(out, c)
	}

	models.SortByConfidence(out)
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models add even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
