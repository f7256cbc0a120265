package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/medinalabs/neuropredictor/internal/models"
	"github.com/medinalabs/neuropredictor/internal/predict"
	"github.com/medinalabs/neuropredictor/internal/shell"
	"github.com/medinalabs/neuropredictor/internal/sim"
)

var predictJSON bool

var predictCmd = &cobra.Command{
	Use:   "predict <text>",
	Short: "Predict the next words of a phrase once",
	Long: `Ask the model for the most likely next words of a phrase and print them
with their confidence and analysis, most confident first.

Examples:
  neuropredictor predict "El sol brilla en el"
  neuropredictor predict El sol brilla en el --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print predictions as JSON")
}

func runPredict(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return errors.New("text is required")
	}

	source, err := newSource(cmd.Context())
	if err != nil {
		return err
	}

	candidates, err := source.Predict(cmd.Context(), text)
	if err != nil {
		logger.Warn("prediction failed", "error", err)
		if errors.Is(err, predict.ErrPredictionUnavailable) {
			return errors.New(shell.ErrorMessage)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if predictJSON {
		return writePredictionsJSON(out, candidates)
	}
	writePredictions(out, candidates, isTerminal(out))
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writePredictionsJSON(w io.Writer, candidates []models.Candidate) error {
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Predictions []models.Candidate `json:"predictions"`
	}{candidates})
}

// writePredictions prints one block per candidate. Styling is only applied
// when writing to a terminal.
func writePredictions(w io.Writer, candidates []models.Candidate, styled bool) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No predictions.")
		return
	}

	word := lipgloss.NewStyle().Foreground(lipgloss.Color(sim.ColorAccent)).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(sim.ColorLabelDim))

	for i, c := range candidates {
		if i > 0 {
			fmt.Fprintln(w)
		}
		name, conf := c.Word, c.Percent()
		if styled {
			name, conf = word.Render(name), dim.Render(conf)
		}
		fmt.Fprintf(w, "%d. %s  %s\n", i+1, name, conf)
		for _, line := range strings.Split(strings.TrimSpace(c.Analysis), "\n") {
			fmt.Fprintf(w, "   %s\n", line)
		}
	}
}
