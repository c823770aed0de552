package main

import (
	domainerr "archivist/internal/domain/errors"
	"archivist/internal/index"
	"errors"
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var opt index.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed issues, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openIndex()
			if err != nil {
				return err
			}
			defer st.Close()

			items, err := st.List(opt)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Published", "Slug", "Title"})
			for _, r := range items {
				published := r.PublishedOn
				if published == "" {
					published = "-"
				}
				t.AppendRow(table.Row{published, r.Slug, r.Title})
			}
			t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d shown", len(items))})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&opt.Year, "year", "", `only this year ("Undated" for undated issues)`)
	cmd.Flags().IntVar(&opt.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opt.Size, "size", 20, "page size (max 500)")
	return cmd
}

func newYearsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "Show issue counts per year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openIndex()
			if err != nil {
				return err
			}
			defer st.Close()

			years, err := st.Years()
			if err != nil {
				return err
			}
			builtAt, err := st.BuiltAt()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Year", "Issues"})
			total := 0
			for _, y := range years {
				t.AppendRow(table.Row{y.Year, y.Count})
				total += y.Count
			}
			t.AppendFooter(table.Row{"Total", total})
			if !builtAt.IsZero() {
				t.SetCaption("indexed %s", builtAt.Local().Format("2006-01-02 15:04"))
			}
			t.Render()
			return nil
		},
	}
}

func (a *app) openIndex() (*index.Store, error) {
	p := a.cfg.Path(a.cfg.Index.Path)
	st, err := index.Open(index.OpenOptions{Path: p, ReadOnly: true})
	if errors.Is(err, domainerr.ErrMissingInput) {
		return nil, fmt.Errorf("no index at %s, run \"archivist ingest\" first: %w", p, err)
	}
	return st, err
}
