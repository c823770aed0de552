package main

import (
	"archivist/internal/build"
	"archivist/internal/logger"
	"archivist/internal/watch"
	"context"
	"fmt"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run ingest whenever issues or subjects change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			override(cmd, "issues", &a.cfg.Ingest.IssuesDir)
			override(cmd, "subjects", &a.cfg.Ingest.SubjectsFile)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			log := a.log.With(logger.Component("watch"))
			b := &build.Builder{Cfg: a.cfg, Log: log}

			w := &watch.Watcher{
				Cfg: a.cfg,
				Log: log,
				Rebuild: func(ctx context.Context) error {
					res, err := b.Run(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d issues to %s\n", res.Issues, res.Output)
					return nil
				},
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().String("issues", "", "issues directory")
	cmd.Flags().String("subjects", "", "subjects file (JSON or YAML)")
	return cmd
}
