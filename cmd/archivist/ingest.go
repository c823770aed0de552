package main

import (
	"archivist/internal/build"
	"archivist/internal/logger"
	"fmt"
	"github.com/spf13/cobra"
)

func newIngestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build the year-grouped issue index",
		Long: `Parse every .html file of the issues directory into a record, apply
authoritative subjects and title fallbacks, and write the {issues, groups}
JSON snapshot. The bbolt index used by "list" and "years" is rebuilt too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			override(cmd, "issues", &a.cfg.Ingest.IssuesDir)
			override(cmd, "subjects", &a.cfg.Ingest.SubjectsFile)
			override(cmd, "output", &a.cfg.Ingest.Output)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			b := &build.Builder{Cfg: a.cfg, Log: a.log.With(logger.Component("ingest"))}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d issues to %s\n", res.Issues, res.Output)
			return nil
		},
	}
	cmd.Flags().String("issues", "", "issues directory")
	cmd.Flags().String("subjects", "", "subjects file (JSON or YAML)")
	cmd.Flags().String("output", "", "JSON snapshot path")
	return cmd
}
