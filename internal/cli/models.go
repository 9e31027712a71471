// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Pommersche92/lazyllama/internal/ollama"
	"github.com/Pommersche92/lazyllama/internal/util"
)

// modelRow is the machine-readable form of one installed model.
type modelRow struct {
	Name          string `json:"name" yaml:"name"`
	Size          int64  `json:"size" yaml:"size"`
	Family        string `json:"family,omitempty" yaml:"family,omitempty"`
	ParameterSize string `json:"parameter_size,omitempty" yaml:"parameter_size,omitempty"`
	Quantization  string `json:"quantization,omitempty" yaml:"quantization,omitempty"`
	Modified      string `json:"modified" yaml:"modified"`
}

// modelSource is satisfied by *ollama.Client.
type modelSource interface {
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

func newModelsCommand(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List installed models",
		Example: `  lazyllama models
  lazyllama models -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), app.Config.Timeout())
			defer cancel()
			return listModels(ctx, app.newClient(), output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json, yaml")
	return cmd
}

func listModels(ctx context.Context, src modelSource, output string, out io.Writer) error {
	models, err := src.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	rows := make([]modelRow, 0, len(models))
	for _, m := range models {
		rows = append(rows, modelRow{
			Name:          m.Name,
			Size:          m.Size,
			Family:        m.Details.Family,
			ParameterSize: m.Details.ParameterSize,
			Quantization:  m.Details.QuantizationLevel,
			Modified:      m.ModifiedAt.Format("2006-01-02 15:04"),
		})
	}

	switch strings.ToLower(output) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rows)
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	if len(rows) == 0 {
		fmt.Fprintln(out, "No models installed. Pull one with: ollama pull <model>")
		return nil
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-32s %10s %8s %-8s %s", "NAME", "SIZE", "PARAMS", "QUANT", "MODIFIED")))
	for _, r := range rows {
		fmt.Fprintf(out, "%-32s %10s %8s %-8s %s\n",
			util.TruncateWidth(r.Name, 32), util.FormatBytes(r.Size), r.ParameterSize, r.Quantization,
			mutedStyle.Render(r.Modified))
	}
	return nil
}
