// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/Pommersche92/lazyllama/internal/ui/styles"
	"github.com/Pommersche92/lazyllama/internal/util"
)

// SelectionMarker prefixes the selected model.
const SelectionMarker = ">> "

// ModelList renders models into at most height rows of width columns,
// scrolled so the selected row stays visible.
func ModelList(theme *styles.Theme, models []string, selected, width, height int) string {
	if height <= 0 || width <= 0 {
		return ""
	}
	if len(models) == 0 {
		return theme.Placeholder.Render(util.TruncateWidth("no models found", width))
	}

	offset := 0
	if selected >= height {
		offset = selected - height + 1
	}
	end := offset + height
	if end > len(models) {
		end = len(models)
	}

	pad := strings.Repeat(" ", len(SelectionMarker))
	rows := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		if i == selected {
			row := util.TruncateWidth(SelectionMarker+models[i], width)
			rows = append(rows, theme.ModelSelected.Render(row))
			continue
		}
		rows = append(rows, theme.ModelItem.Render(util.TruncateWidth(pad+models[i], width)))
	}
	return strings.Join(rows, "\n")
}
