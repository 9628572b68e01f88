package tui

import "github.com/charmbracelet/lipgloss"

// Theme groups the lipgloss styles used by the browse interface.
type Theme struct {
	Title      lipgloss.Style
	TabActive  lipgloss.Style
	TabIdle    lipgloss.Style
	Cursor     lipgloss.Style
	DealTitle  lipgloss.Style
	Price      lipgloss.Style
	OldPrice   lipgloss.Style
	Discount   lipgloss.Style
	ScoreUp    lipgloss.Style
	ScoreDown  lipgloss.Style
	ScoreIdle  lipgloss.Style
	Pending    lipgloss.Style
	Saved      lipgloss.Style
	Category   lipgloss.Style
	StatusBad  lipgloss.Style
	Dim        lipgloss.Style
	Toast      lipgloss.Style
	ToastError lipgloss.Style
	StatusBar  lipgloss.Style
	Author     lipgloss.Style
	Spark      lipgloss.Style
}

// DefaultTheme is the standard color scheme.
var DefaultTheme = Theme{
	Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
	TabActive:  lipgloss.NewStyle().Bold(true).Underline(true),
	TabIdle:    lipgloss.NewStyle().Faint(true),
	Cursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
	DealTitle:  lipgloss.NewStyle().Bold(true),
	Price:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	OldPrice:   lipgloss.NewStyle().Faint(true).Strikethrough(true),
	Discount:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	ScoreUp:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	ScoreDown:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	ScoreIdle:  lipgloss.NewStyle(),
	Pending:    lipgloss.NewStyle().Faint(true).Italic(true),
	Saved:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	Category:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	StatusBad:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	Dim:        lipgloss.NewStyle().Faint(true),
	Toast:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	ToastError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	StatusBar:  lipgloss.NewStyle().Faint(true),
	Author:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	Spark:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
}
