package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const logoRaw = `

██╗   ██╗ █████╗ ██╗   ██╗██╗  ████████╗██╗   ██╗
██║   ██║██╔══██╗██║   ██║██║  ╚══██╔══╝╚██╗ ██╔╝
██║   ██║███████║██║   ██║██║     ██║    ╚████╔╝
╚██╗ ██╔╝██╔══██║██║   ██║██║     ██║     ╚██╔╝
 ╚████╔╝ ██║  ██║╚██████╔╝███████╗██║      ██║
  ╚═══╝  ╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝      ╚═╝
`

var (
	gradientStart = "#ffb000" // amber
	gradientEnd   = "#ff2a6d" // vault red
)

func renderLogo() string {
	lines := strings.Split(strings.TrimPrefix(logoRaw, "\n"), "\n")

	maxWidth := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > maxWidth {
			maxWidth = n
		}
	}
	if maxWidth == 0 {
		return ""
	}

	startColor, _ := colorful.Hex(gradientStart)
	endColor, _ := colorful.Hex(gradientEnd)

	var result strings.Builder
	for _, line := range lines {
		col := 0
		for _, char := range line {
			if char == ' ' {
				result.WriteRune(char)
				col++
				continue
			}
			t := float64(col) / float64(maxWidth)
			c := startColor.BlendLuv(endColor, t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
			result.WriteString(style.Render(string(char)))
			col++
		}
		result.WriteString("\n")
	}

	return result.String()
}

var logo = renderLogo()
