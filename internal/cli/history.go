// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Pommersche92/lazyllama/internal/archive"
	"github.com/Pommersche92/lazyllama/internal/util"
)

func newHistoryCommand(app *App) *cobra.Command {
	var q archive.Query
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived exchanges",
		Long: `List prompts and replies recorded in the archive, newest first.

Use "lazyllama history show ID" to print one exchange in full.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			arc, err := openArchiveForRead(app)
			if err != nil {
				return err
			}
			defer arc.Close()

			entries, err := arc.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&q.Limit, "limit", "n", 20, "maximum number of exchanges (0 for all)")
	cmd.Flags().StringVarP(&q.Model, "model", "m", "", "only exchanges with this model")
	cmd.Flags().StringVar(&q.SessionID, "session", "", "only exchanges from this session id")

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Print one archived exchange",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			arc, err := openArchiveForRead(app)
			if err != nil {
				return err
			}
			defer arc.Close()

			e, err := arc.Get(cmd.Context(), id)
			if errors.Is(err, archive.ErrNotFound) {
				return fmt.Errorf("no exchange with id %d", id)
			}
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	})
	return cmd
}

func openArchiveForRead(app *App) (*archive.Archive, error) {
	dir, err := app.dataDir()
	if err != nil {
		return nil, err
	}
	return archive.Open(filepath.Join(dir, archive.FileName))
}

func printEntries(out io.Writer, entries []archive.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No exchanges archived yet.")
		return
	}
	for _, e := range entries {
		status := ""
		if e.Error != "" {
			status = " " + errorStyle.Render("!")
		}
		fmt.Fprintf(out, "%5d  %s  %-20s %s%s\n",
			e.ID,
			mutedStyle.Render(e.Started.Format("2006-01-02 15:04")),
			util.TruncateWidth(e.Model, 20),
			util.TruncateWidth(util.FirstLine(e.Prompt), 60),
			status)
	}
}

func printEntry(out io.Writer, e archive.Entry) {
	fmt.Fprintf(out, "%s #%d  %s  %s  (%s)\n",
		headerStyle.Render("Exchange"), e.ID, e.Model,
		e.Started.Format("2006-01-02 15:04:05"), e.Duration().Round(1e6))
	fmt.Fprintf(out, "%s %s\n", mutedStyle.Render("session"), e.SessionID)
	fmt.Fprintf(out, "\n%s %s\n\n%s %s\n", promptStyle.Render("YOU:"), e.Prompt, aiStyle.Render("AI:"), e.Reply)
	if e.Error != "" {
		fmt.Fprintf(out, "\n%s %s\n", errorStyle.Render("error:"), e.Error)
	}
}
