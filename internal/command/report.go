package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/genricoloni/spotui/internal/domain"
)

// Report formats a failed command for the status line
func Report(id ID, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnknownCommand) {
		return "[!] " + err.Error()
	}

	var se *domain.ServiceError
	if errors.As(err, &se) {
		return fmt.Sprintf("[!] %s failed: %s: %s", id, se.Kind, se.Reason())
	}
	return fmt.Sprintf("[!] %s failed: %v", id, err)
}

// FormatDuration formats milliseconds as m:ss
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// HelpMarkdown lists every command and its aliases
func HelpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Commands\n\n")
	for _, spec := range registry {
		usage := spec.Name()
		if spec.Args != "" {
			usage += " " + spec.Args
		}
		fmt.Fprintf(&b, "- `%s` %s", usage, spec.Summary)
		if len(spec.Verbs) > 1 {
			fmt.Fprintf(&b, " (also %s)", strings.Join(spec.Verbs[1:], ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nN is the entry number shown in this panel.\n")
	return b.String()
}

// RenderHelp renders markdown for a panel of the given width.
// style is a glamour standard style such as "dark", "light" or "notty".
func RenderHelp(markdown string, width int, style string) (string, error) {
	const gutter = 2
	wrap := width - gutter
	if wrap < 10 {
		wrap = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return markdown, fmt.Errorf("creating help renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown, fmt.Errorf("rendering help: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}
