// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BannerText is the logo shown above the panels.
const BannerText = `
| |    __ _  ______  __| |    | | __ _ _ __ ___   __ _
| |   / _` + "`" + ` ||_  /\ \/ /| |    | |/ _` + "`" + ` | '_ ` + "`" + ` _ \ / _` + "`" + ` |
| |__| (_| | / /  \  / | |___ | | (_| | | | | | | (_| |
|_____\__,_|/___| /_/  |_____||_|\__,_|_| |_| |_|\__,_|
`

// BannerHeight is the number of rows reserved for the banner.
const BannerHeight = 7

// Banner renders BannerText centered in width columns, BannerHeight rows tall.
func Banner(style lipgloss.Style, width int) string {
	lines := strings.Split(BannerText, "\n")
	for len(lines) < BannerHeight {
		lines = append(lines, "")
	}
	return style.
		Width(width).MaxWidth(width).
		Height(BannerHeight).MaxHeight(BannerHeight).
		Align(lipgloss.Center).
		Render(strings.Join(lines[:BannerHeight], "\n"))
}
