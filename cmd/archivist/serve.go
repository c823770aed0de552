package main

import (
	"archivist/internal/build"
	"archivist/internal/index"
	"archivist/internal/logger"
	"archivist/internal/serve"
	"archivist/internal/watch"
	"context"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the index over HTTP and re-ingest on change",
		Long: `Serve the current index as read-only JSON under /api, the cached images
under their public prefix and a reload event stream at /api/events. Issue and
subject changes trigger a new ingestion, as with "watch".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			log := a.log.With(logger.Component("serve"))

			st, err := index.Open(index.OpenOptions{Path: a.cfg.Path(a.cfg.Index.Path)})
			if err != nil {
				return err
			}
			defer st.Close()

			srv := serve.New(a.cfg, st, log)
			b := &build.Builder{Cfg: a.cfg, Log: log, Index: st}
			w := &watch.Watcher{
				Cfg: a.cfg,
				Log: log,
				Rebuild: func(ctx context.Context) error {
					if _, err := b.Run(ctx); err != nil {
						return err
					}
					srv.Reloaded()
					return nil
				},
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return w.Run(ctx) })
			g.Go(func() error { return srv.ListenAndServe(ctx, addr) })
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
