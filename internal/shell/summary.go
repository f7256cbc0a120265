package shell

import (
	"fmt"
	"strings"
)

// UI strings.
const (
	Title            = "Medina Neuro Predictor"
	Subtitle         = "Escribe una frase y observa las predicciones de la IA en una simulación de partículas."
	Footer           = "Desarrollado con Go, Bubble Tea y Gemini API."
	InputLabel       = "Entrada de Texto"
	InputPlaceholder = "Escribe algo aquí..."
	InitialInput     = "El sol brilla en el"
	SubmitIdle       = "Predecir Siguiente Palabra"
	SubmitBusy       = "Procesando..."
	StatusBusy       = "Calculando predicciones..."
	StatusIdle       = "Esperando entrada para analizar..."
	AnalysisHeading  = "Análisis de la IA"
)

// SummaryView is what the summary panel renders for a State.
type SummaryView struct {
	Word         string  `json:"word,omitempty"`
	Status       string  `json:"status"`
	Confidence   float64 `json:"confidence"`
	ShowAnalysis bool    `json:"show_analysis"`
	Analysis     string  `json:"analysis,omitempty"`
	Error        bool    `json:"error"`
	Processing   bool    `json:"processing"`
	CanAnalyze   bool    `json:"can_analyze"`
	Button       string  `json:"button"`
}

// Summary derives the panel view from s.
func Summary(s State) SummaryView {
	v := SummaryView{
		Processing: s.Processing,
		CanAnalyze: !s.Processing && strings.TrimSpace(s.Input) != "",
		Button:     SubmitIdle,
	}
	if s.Processing {
		v.Button = SubmitBusy
	}

	switch {
	case s.Processing:
		v.Status = StatusBusy
	case s.Err != "":
		v.Status = s.Err
		v.Error = true
	case s.Active != nil:
		v.Word = s.Active.Word
		v.Confidence = s.Active.Confidence
		v.Status = fmt.Sprintf("Confianza de la predicción: %s", s.Active.Percent())
		v.ShowAnalysis = true
		v.Analysis = s.Active.Analysis
	default:
		v.Status = StatusIdle
	}
	return v
}

// IsSubmitKey reports whether a key press triggers analysis. Bare Enter
// submits; Enter with a modifier inserts a newline.
func IsSubmitKey(key string) bool {
	return key == "enter"
}
