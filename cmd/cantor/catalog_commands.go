package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cantor/internal/catalog"
)

func newSongsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List songs in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.catalog()
			if err != nil {
				return err
			}
			songs, err := store.ListSongs(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, songs)
			}
			if len(songs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No songs in catalog")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSongsTable(songs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print songs as JSON")
	return cmd
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs [SONG_ID]",
		Short: "List scoring runs, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.catalog()
			if err != nil {
				return err
			}
			var songID string
			if len(args) == 1 {
				songID = args[0]
				if _, err := store.GetSong(cmd.Context(), songID); err != nil {
					return err
				}
			}
			runs, err := store.ListRuns(cmd.Context(), songID, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRunsTable(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	return cmd
}

func renderSongsTable(songs []catalog.Song) string {
	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, []string{
			s.SongID,
			formatFloat(s.Duration, 1),
			formatFloat(s.Tempo, 1),
			s.Key,
			strconv.Itoa(s.Phrases),
			s.AlignMethod,
			yesNo(s.Degraded),
			s.BuiltAt.Local().Format(time.DateTime),
		})
	}
	return renderTable(
		[]string{"Song", "Duration (s)", "Tempo", "Key", "Phrases", "Align", "Degraded", "Built"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight},
	)
}

func renderRunsTable(runs []catalog.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.RunID,
			r.SongID,
			formatPercent(r.Accuracy),
			formatFloat(r.MedianCentsError, 1),
			fmt.Sprintf("%d/%d", r.Phrases-r.Insufficient, r.Phrases),
			r.CreatedAt.Local().Format(time.DateTime),
		})
	}
	return renderTable(
		[]string{"Run", "Song", "Accuracy", "Median cents", "Scored", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}
