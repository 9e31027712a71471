// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pommersche92/lazyllama/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// a broken file must not block `config path` or `config init --force`
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd, true)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if app.ConfigFound {
				fmt.Fprintln(out, app.ConfigPath)
			} else {
				fmt.Fprintln(out, app.ConfigPath+" "+mutedStyle.Render("(not created; using defaults)"))
			}
			return nil
		},
	})

	var (
		force  bool
		format string
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initPath(app, format)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("wrote")+" "+path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&format, "format", "toml", "file format: toml or yaml")
	cmd.AddCommand(initCmd)

	var showFormat string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after defaults, the config file and LAZYLLAMA_* variables are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(app.Config, "."+showFormat)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	showCmd.Flags().StringVar(&showFormat, "format", "toml", "output format: toml or yaml")
	cmd.AddCommand(showCmd)

	return cmd
}

// initPath is the --config path if given, else the default location for
// format.
func initPath(app *App, format string) (string, error) {
	if app.configFlag != "" {
		return app.configFlag, nil
	}
	switch format {
	case "toml", "":
		return config.ConfigPathTOML()
	case "yaml", "yml":
		return config.ConfigPathYAML()
	}
	return "", fmt.Errorf("unknown format %q", format)
}
