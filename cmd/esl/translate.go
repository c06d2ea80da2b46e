package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eslbridge/sign-translator/internal/app"
	"github.com/eslbridge/sign-translator/internal/pipeline"
)

func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <sentence...>",
		Short: "Translate a sentence into a sign video",
		Args:  cobra.MinimumNArgs(1),
		RunE:  translateSentence,
	}
	cmd.Flags().String("language", "auto", "Input language (english|arabic|auto)")
	return cmd
}

func translateSentence(cmd *cobra.Command, args []string) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	language, _ := cmd.Flags().GetString("language")
	ctx := cmd.Context()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Pipeline.Translate(ctx, pipeline.Request{Text: strings.Join(args, " "), Language: language})
	if errors.Is(err, pipeline.ErrNoSignContent) {
		return errors.New("could not generate a sign video: no matching signs for this input")
	}
	if err != nil {
		return err
	}

	if jsonMode(cmd) {
		return printJSON(cmd, map[string]interface{}{
			"text":    res.Text,
			"english": res.English,
			"clips":   res.Clips,
			"missing": res.Missing,
			"video":   res.Path,
		})
	}
	w := cmd.OutOrStdout()
	if res.English != res.Text {
		fmt.Fprintf(w, "English: %s\n", res.English)
	}
	fmt.Fprintf(w, "Clips:   %s\n", strings.Join(res.Clips, " "))
	if len(res.Missing) > 0 {
		fmt.Fprintf(w, "Missing: %s\n", strings.Join(res.Missing, " "))
	}
	fmt.Fprintf(w, "Video:   %s\n", res.Path)
	return nil
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <sentence...>",
		Short: "Show how each word of an English sentence resolves, without assembling video",
		Args:  cobra.MinimumNArgs(1),
		RunE:  resolveSentence,
	}
}

type traceRow struct {
	Token    string  `json:"token"`
	Phrase   bool    `json:"phrase"`
	Label    string  `json:"label"`
	Clip     string  `json:"clip"`
	Score    float64 `json:"score"`
	Outcome  string  `json:"outcome"`
	Accepted bool    `json:"accepted"`
	Error    string  `json:"error,omitempty"`
}

func resolveSentence(cmd *cobra.Command, args []string) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer a.Close()

	clips, steps, err := a.Resolver.ResolveTrace(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	rows := make([]traceRow, len(steps))
	for i, s := range steps {
		rows[i] = traceRow{
			Token:    s.Token,
			Phrase:   s.Phrase,
			Label:    s.Match.Label,
			Clip:     s.Match.ClipID,
			Score:    s.Match.Score,
			Outcome:  s.Outcome.String(),
			Accepted: s.Accepted,
		}
		if s.Err != nil {
			rows[i].Error = s.Err.Error()
		}
	}

	if jsonMode(cmd) {
		return printJSON(cmd, map[string]interface{}{"clips": clips, "steps": rows})
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOKEN\tLABEL\tCLIP\tSCORE\tOUTCOME\tACCEPTED")
	for _, r := range rows {
		token := r.Token
		if r.Phrase {
			token = `"` + token + `"`
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\t%s\t%t\n", token, r.Label, r.Clip, r.Score, r.Outcome, r.Accepted)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nClips: %s\n", strings.Join(clips, " "))
	return nil
}
