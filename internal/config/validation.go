package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks field values. It does not check that API keys are present;
// llm.NewModel reports a missing key for the provider actually selected.
func (c Config) Validate() error {
	var errs ValidationErrors

	switch c.LLMProvider {
	case ProviderGoogleAI, ProviderOllama, ProviderOpenAI, ProviderAnthropic, ProviderBedrock:
	default:
		errs = append(errs, ValidationError{Field: "llm_provider", Message: fmt.Sprintf("unknown provider %q", c.LLMProvider)})
	}
	if strings.TrimSpace(c.LLMModel) == "" {
		errs = append(errs, ValidationError{Field: "llm_model", Message: "must not be empty"})
	}
	if c.FrameRate < 1 || c.FrameRate > 240 {
		errs = append(errs, ValidationError{Field: "frame_rate", Message: fmt.Sprintf("%d outside 1..240", c.FrameRate)})
	}
	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{Field: "server_port", Message: fmt.Sprintf("invalid port %q", c.ServerPort)})
	}
	if c.PredictTimeout < 0 {
		errs = append(errs, ValidationError{Field: "predict_timeout", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
