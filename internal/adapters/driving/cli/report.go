package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printReport writes one line per diagnostic, styled on terminals.
func printReport(w io.Writer, name string, report *domain.Report) {
	styled := isTerminal(w)
	for _, d := range report.Diagnostics {
		fmt.Fprintln(w, formatDiagnostic(name, d, styled))
	}
}

func formatDiagnostic(name string, d domain.Diagnostic, styled bool) string {
	severity, path := string(d.Severity), d.Path
	if styled {
		if d.Severity == domain.SeverityError {
			severity = errorStyle.Render(severity)
		} else {
			severity = warningStyle.Render(severity)
		}
		path = pathStyle.Render(path)
	}

	prefix := ""
	if name != "" {
		prefix = name + ": "
	}
	if d.Path == "" {
		return fmt.Sprintf("%s%s: %s", prefix, severity, d.Message)
	}
	return fmt.Sprintf("%s%s %s: %s", prefix, severity, path, d.Message)
}

// verdict summarises a report in one line.
func verdict(name string, report *domain.Report, styled bool) string {
	errs, warns := len(report.Errors()), len(report.Warnings())
	status := "valid"
	if !report.Valid {
		status = "invalid"
	}
	if styled {
		if report.Valid {
			status = okStyle.Render(status)
		} else {
			status = errorStyle.Render(status)
		}
	}
	return fmt.Sprintf("%s: %s (%s, %s)", name, status, plural(errs, "error"), plural(warns, "warning"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printError writes a command failure.
func printError(w io.Writer, err error) {
	label := "Error:"
	if isTerminal(w) {
		label = errorStyle.Render(label)
	}
	fmt.Fprintln(w, label, err)
}
