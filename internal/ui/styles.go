package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// StyleManager encapsulates all output styles
type StyleManager struct {
	// Summary styles
	Header lipgloss.Style
	Path   lipgloss.Style
	Count  lipgloss.Style
	Dim    lipgloss.Style
	Error  lipgloss.Style

	// Colors for direct access
	Accent  lipgloss.Color
	Warning lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Header:  lipgloss.NewStyle().Bold(true),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Count:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		Accent:  lipgloss.Color("212"),
		Warning: lipgloss.Color("214"),
	}
}

// LogStyles returns logger styles using the same palette
func (s *StyleManager) LogStyles() *log.Styles {
	st := log.DefaultStyles()
	st.Prefix = lipgloss.NewStyle().Foreground(s.Accent).Bold(true)
	st.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("DEBU").Foreground(lipgloss.Color("241"))
	st.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("INFO").Foreground(lipgloss.Color("6"))
	st.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Foreground(s.Warning).Bold(true)
	st.Levels[log.ErrorLevel] = s.Error.SetString("ERRO")
	st.Keys["err"] = s.Error
	st.Keys["link"] = s.Path
	st.Keys["path"] = s.Path
	return st
}

// Global style manager instance
var styles = DefaultStyles()
