package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/medinalabs/neuropredictor/internal/client"
	"github.com/medinalabs/neuropredictor/internal/shell"
)

var watchTimeout time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [text]",
	Short: "Follow a live session on a server until its prediction settles",
	Long: `Open a visualization session on a neuropredictor server, submit a phrase
and print each status change until the prediction arrives or fails.
Without text the default phrase is submitted.

Examples:
  neuropredictor watch --server http://localhost:8585
  neuropredictor watch "Había una vez" --server http://localhost:8585`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 2*time.Minute, "give up after this long")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if serverURL == "" {
		return errors.New("watch needs --server")
	}
	text := shell.InitialInput
	if len(args) > 0 {
		text = strings.Join(args, " ")
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("text is required")
	}

	sess, err := client.New(serverURL).Dial(cmd.Context())
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer sess.Close()

	if err := sess.Input(text); err != nil {
		return err
	}
	if err := sess.Analyze(); err != nil {
		return err
	}
	if err := sess.SetReadDeadline(time.Now().Add(watchTimeout)); err != nil {
		return err
	}
	return followSession(cmd.OutOrStdout(), sess)
}

// followSession prints status changes from the submission onwards and
// returns once the session leaves the processing state.
func followSession(w io.Writer, sess *client.Session) error {
	submitted := false
	last := ""
	for {
		msg, err := sess.Next()
		if err != nil {
			return fmt.Errorf("read session: %w", err)
		}
		if msg.Type != "state" {
			continue
		}
		var v shell.SummaryView
		if err := json.Unmarshal(msg.Summary, &v); err != nil {
			return fmt.Errorf("decode state: %w", err)
		}
		if v.Processing {
			submitted = true
		}
		if !submitted {
			continue
		}

		if v.Status != last {
			fmt.Fprintln(w, v.Status)
			last = v.Status
		}
		if v.Processing {
			continue
		}
		if v.Error {
			return errors.New(v.Status)
		}
		if v.Word != "" {
			fmt.Fprintf(w, "%s\n", v.Word)
			for _, line := range strings.Split(strings.TrimSpace(v.Analysis), "\n") {
				fmt.Fprintf(w, "   %s\n", line)
			}
		}
		return nil
	}
}
