package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cantor/internal/catalog"
	"cantor/internal/config"
	"cantor/internal/logging"
	"cantor/internal/reference"
	"cantor/internal/textutil"
)

const assetFileName = "reference.json"

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var featuresPath string
	var outDir string
	var songID string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a reference asset from an extracted feature bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			in, err := reference.LoadInputs(featuresPath)
			if err != nil {
				return err
			}
			if id := strings.TrimSpace(songID); id != "" {
				in.SongID = id
			}
			if strings.TrimSpace(in.SongID) == "" {
				in.SongID = textutil.Slug(strings.TrimSuffix(filepath.Base(featuresPath), filepath.Ext(featuresPath)))
			}
			slug := textutil.Slug(in.SongID)

			dir := cfg.SongDir(slug)
			if strings.TrimSpace(outDir) != "" {
				if dir, err = config.ExpandPath(outDir); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}

			asset, err := reference.NewBuilder(builderOptions(cfg), logger).Build(cmd.Context(), in)
			if err != nil {
				logging.ErrorWithContext(logger, "reference build failed", "build_failed",
					logging.String(logging.FieldSongID, in.SongID),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check the feature bundle for empty or misaligned tracks"),
				)
				return fmt.Errorf("build %s: %w", in.SongID, err)
			}
			assetPath := filepath.Join(dir, assetFileName)
			if err := reference.Save(assetPath, asset); err != nil {
				return err
			}

			store, err := ctx.catalog()
			if err != nil {
				return err
			}
			if err := store.UpsertSong(cmd.Context(), songFromAsset(asset, slug, assetPath)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote reference for %s to %s\n", asset.SongID, assetPath)
			fmt.Fprintln(out, renderAssetSummary(asset))
			return nil
		},
	}

	cmd.Flags().StringVarP(&featuresPath, "features", "f", "", "Feature bundle JSON")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default data_dir/songs/<slug>)")
	cmd.Flags().StringVar(&songID, "song-id", "", "Song identifier (overrides the bundle)")
	_ = cmd.MarkFlagRequired("features")
	return cmd
}

func songFromAsset(asset *reference.Asset, slug, assetPath string) catalog.Song {
	return catalog.Song{
		SongID:       asset.SongID,
		Slug:         slug,
		Version:      asset.Version,
		AssetPath:    assetPath,
		Duration:     asset.Duration,
		Tempo:        asset.Tempo,
		Key:          asset.Key,
		Segments:     len(asset.WarpT.Segments),
		NoteBins:     len(asset.NoteBins),
		Phrases:      len(asset.PhrasesK),
		AlignQuality: asset.WarpT.Quality,
		AlignMethod:  asset.WarpT.Method,
		Degraded:     asset.Degraded(),
		BuiltAt:      asset.GeneratedAt,
	}
}
