package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ryanhamamura/elegant/content"
	"github.com/ryanhamamura/elegant/internal/config"
	"github.com/spf13/cobra"
)

const messagePreviewLength = 60

// queryLister is what the queries command needs from the content API.
type queryLister interface {
	FetchQueries(ctx context.Context) ([]content.Query, error)
}

func newQueriesCommand(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List the contact queries stored by the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			client := content.NewClient(content.ClientConfig{Origin: cfg.Backend.Origin, Timeout: cfg.Backend.Timeout})
			return listQueries(cmd.Context(), client, cmd.OutOrStdout())
		},
	}
}

func listQueries(ctx context.Context, l queryLister, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	queries, err := l.FetchQueries(ctx)
	if err != nil {
		return fmt.Errorf("list queries: %w", err)
	}
	if len(queries) == 0 {
		_, err := fmt.Fprintln(out, "No queries yet.")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Email", "Message", "When"})
	for _, q := range queries {
		when := ""
		if !q.CreatedAt.IsZero() {
			when = q.CreatedAt.Local().Format(time.DateTime)
		}
		t.AppendRow(table.Row{q.Name, q.Email, preview(q.Message), when})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(queries)})
	t.Render()
	return nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= messagePreviewLength {
		return s
	}
	return string(r[:messagePreviewLength-3]) + "..."
}
