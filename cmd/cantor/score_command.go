package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cantor/internal/catalog"
	"cantor/internal/config"
	"cantor/internal/fileutil"
	"cantor/internal/logging"
	"cantor/internal/performance"
	"cantor/internal/reference"
	"cantor/internal/score"
	"cantor/internal/textutil"
)

// refinement is the results document written for each scored performance.
type refinement struct {
	Version string `json:"version"`
	RunID   string `json:"run_id"`
	SongID  string `json:"song_id"`
	*score.Report
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var referenceArg string
	var performancePath string
	var outputPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a performance against a reference asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			asset, assetPath, err := resolveAsset(cmd, ctx, referenceArg)
			if err != nil {
				return err
			}
			perf, err := performance.Load(performancePath)
			if err != nil {
				return err
			}

			runID := catalog.NewRunID()
			runCtx := logging.WithRunID(logging.WithSongID(cmd.Context(), asset.SongID), runID)
			report, err := score.NewScorer(scorerOptions(cfg), logger).
				Score(runCtx, asset.PitchSeries(), perf.Series(), asset.PhrasesK)
			if err != nil {
				logging.ErrorWithContext(logging.WithContext(runCtx, logger), "scoring failed", "score_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check the performance timestamps and scoring.timeout_seconds"),
				)
				return fmt.Errorf("score %s: %w", asset.SongID, err)
			}

			slug := textutil.Slug(asset.SongID)
			target := filepath.Join(cfg.RunDir(slug), runID+".json")
			if strings.TrimSpace(outputPath) != "" {
				if target, err = config.ExpandPath(outputPath); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}
			doc := refinement{Version: reference.Version, RunID: runID, SongID: asset.SongID, Report: report}
			if err := fileutil.WriteJSON(target, doc); err != nil {
				return fmt.Errorf("write results: %w", err)
			}

			if err := recordRun(cmd, ctx, asset, assetPath, perf, report, runID, performancePath, target); err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, doc)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPhraseTable(report))
			fmt.Fprintf(out, "Overall accuracy %s, median error %s cents (%d of %d phrases scored)\n",
				formatPercent(report.Overall.Accuracy),
				formatFloat(report.Overall.MedianCentsError, 1),
				len(report.Phrases)-report.Insufficient,
				len(report.Phrases),
			)
			fmt.Fprintf(out, "Run %s written to %s\n", runID, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&referenceArg, "reference", "r", "", "Reference asset path or catalog song id")
	cmd.Flags().StringVarP(&performancePath, "performance", "p", "", "Performance pitch JSON")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Results path (default data_dir/songs/<slug>/runs/<run_id>.json)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the results document as JSON")
	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("performance")
	return cmd
}

// recordRun stores the run, registering the song first when the asset was
// built outside this catalog.
func recordRun(cmd *cobra.Command, ctx *commandContext, asset *reference.Asset, assetPath string,
	perf *performance.Performance, report *score.Report, runID, performancePath, resultPath string,
) error {
	store, err := ctx.catalog()
	if err != nil {
		return err
	}
	if _, err := store.GetSong(cmd.Context(), asset.SongID); errors.Is(err, catalog.ErrNotFound) {
		if err := store.UpsertSong(cmd.Context(), songFromAsset(asset, textutil.Slug(asset.SongID), assetPath)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if abs, err := config.ExpandPath(performancePath); err == nil {
		performancePath = abs
	}
	_, err = store.RecordRun(cmd.Context(), catalog.Run{
		RunID:            runID,
		SongID:           asset.SongID,
		PerformancePath:  performancePath,
		ResultPath:       resultPath,
		Accuracy:         report.Overall.Accuracy,
		MedianCentsError: report.Overall.MedianCentsError,
		Phrases:          len(report.Phrases),
		Insufficient:     report.Insufficient,
		Degraded:         asset.Degraded() || perf.Voiced() == 0,
	})
	return err
}

func renderPhraseTable(report *score.Report) string {
	rows := make([][]string, 0, len(report.Phrases))
	for _, p := range report.Phrases {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			formatFloat(p.Start, 2),
			formatFloat(p.End, 2),
			formatPercent(p.Accuracy),
			formatFloat(p.MedianCentsError, 1),
			formatFloat(p.TimingOffset, 3),
			string(p.Status),
		})
	}
	return renderTable(
		[]string{"Phrase", "Start", "End", "Accuracy", "Median cents", "Offset (s)", "Status"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
