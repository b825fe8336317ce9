package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cantor/internal/config"
	"cantor/internal/reference"
	"cantor/internal/textutil"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show REFERENCE",
		Short: "Summarise a reference asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, _, err := resolveAsset(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, asset)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAssetSummary(asset))
			if len(asset.Degradations) > 0 {
				rows := make([][]string, 0, len(asset.Degradations))
				for _, d := range asset.Degradations {
					rows = append(rows, []string{d.Stage, string(d.Kind), d.Detail})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Stage", "Kind", "Detail"}, rows, nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full asset as JSON")
	return cmd
}

// resolveAsset loads arg as a path, falling back to a catalog song id. It
// returns the asset and the absolute path it was read from.
func resolveAsset(cmd *cobra.Command, ctx *commandContext, arg string) (*reference.Asset, string, error) {
	arg = strings.TrimSpace(arg)
	path := arg
	if !strings.HasSuffix(arg, ".json") && !strings.ContainsRune(arg, filepath.Separator) {
		store, err := ctx.catalog()
		if err != nil {
			return nil, "", err
		}
		song, err := store.GetSong(cmd.Context(), arg)
		if err != nil {
			return nil, "", err
		}
		path = song.AssetPath
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve reference path: %w", err)
	}
	asset, err := reference.Load(path)
	if err != nil {
		return nil, "", err
	}
	return asset, path, nil
}

func renderAssetSummary(asset *reference.Asset) string {
	pairs := [][2]string{
		{"Song", asset.SongID},
		{"Title", textutil.Title(textutil.Slug(asset.SongID))},
		{"Version", asset.Version},
		{"Duration", formatFloat(asset.Duration, 2) + "s"},
		{"Tempo", formatFloat(asset.Tempo, 1) + " bpm"},
		{"Key", fmt.Sprintf("%s (%s)", asset.Key, formatFloat(asset.KeyConfidence, 2))},
		{"Alignment", fmt.Sprintf("%s, quality %s", asset.WarpT.Method, formatFloat(asset.WarpT.Quality, 2))},
		{"Warp segments", strconv.Itoa(len(asset.WarpT.Segments))},
		{"Phrases", strconv.Itoa(len(asset.PhrasesK))},
		{"Note bins", strconv.Itoa(len(asset.NoteBins))},
		{"Voiced frames", strconv.Itoa(len(asset.F0RefOnK))},
		{"Degraded", yesNo(asset.Degraded())},
	}
	return renderKeyValues(pairs)
}
