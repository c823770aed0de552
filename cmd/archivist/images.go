package main

import (
	"archivist/internal/assets"
	"archivist/internal/logger"
	"errors"
	"fmt"
	"github.com/spf13/cobra"
)

func newImagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Cache remote images locally and rewrite issue HTML",
		Long: `Download every remote image referenced by a src attribute of an issue
file, store it under the asset directory and point the HTML at the local copy.
Already cached images are reused through the manifest. A failed download keeps
the remote URL in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			override(cmd, "issues", &a.cfg.Ingest.IssuesDir)
			override(cmd, "manifest", &a.cfg.Images.Manifest)
			override(cmd, "asset-dir", &a.cfg.Images.AssetDir)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			log := a.log.With(logger.Component("images"))

			manifestPath := a.cfg.Path(a.cfg.Images.Manifest)
			manifest, err := assets.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			dl := assets.NewDownloader(assets.DownloaderOptions{
				Timeout:    a.cfg.Images.Timeout,
				UserAgent:  a.cfg.Images.UserAgent,
				Retries:    a.cfg.Images.Retries,
				RetryDelay: a.cfg.Images.RetryDelay,
			})
			engine := assets.NewEngine(assets.OptionsFromConfig(a.cfg), dl, log)

			manifest, rep, runErr := engine.Run(cmd.Context(), manifest)
			if err := manifest.Save(manifestPath); err != nil {
				return errors.Join(runErr, fmt.Errorf("save manifest: %w", err))
			}
			if runErr != nil {
				return runErr
			}

			log.Info("image cache complete",
				logger.Int("files", rep.Files),
				logger.Int("updated", rep.Updated),
				logger.Int("downloaded", rep.Downloaded),
				logger.Int("cache_hits", rep.CacheHits),
				logger.Int("failed", rep.Failed),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Completed. Updated %d issue(s).\n", rep.Updated)
			return nil
		},
	}
	cmd.Flags().String("issues", "", "issues directory")
	cmd.Flags().String("manifest", "", "image cache manifest path")
	cmd.Flags().String("asset-dir", "", "directory cached images are written to")
	return cmd
}
