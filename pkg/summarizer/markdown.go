package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		if fn != nil {
			f.translate = fn
		}
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter. Labels are left in
// English unless a translator is given.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Playback Summary"))

	// Source
	fmt.Fprintf(&b, "## %s\n\n", t("Source"))
	f.row(&b, "File", s.Source.Path)
	if s.Source.FileSize > 0 {
		f.row(&b, "File Size", formatBytes(s.Source.FileSize))
	}
	f.row(&b, "Screen", fmt.Sprintf("%dx%d", s.Source.Width, s.Source.Height))
	f.row(&b, "Repeat", f.loopCount(s.Source.LoopCount))
	f.row(&b, "Sub-images", fmt.Sprintf("%d", s.Source.SubImages))
	f.row(&b, "Frames", fmt.Sprintf("%d", len(s.Frames)))
	if len(s.Source.Skipped) > 0 {
		f.row(&b, "Skipped", joinInts(s.Source.Skipped))
	}
	if s.Source.Throttled > 0 {
		f.row(&b, "Throttled Delays", fmt.Sprintf("%d", s.Source.Throttled))
	}
	b.WriteString("\n")

	// Timeline
	if len(s.Frames) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Timeline"))
		fmt.Fprintf(&b, "| # | %s | %s |\n", t("Starts At"), t("Duration"))
		b.WriteString("|---:|---:|---:|\n")
		for _, fr := range s.Frames {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", fr.Index, formatMs(fr.StartsAt), formatMs(fr.Duration))
		}
		b.WriteString("\n")
	}

	// Playback
	fmt.Fprintf(&b, "## %s\n\n", t("Playback"))
	f.row(&b, "Result", t(s.Playback.Reason))
	f.row(&b, "Elapsed", formatMs(s.Playback.Elapsed))
	f.row(&b, "Loop Duration", formatMs(s.Playback.TotalDuration))
	f.row(&b, "Images Displayed", fmt.Sprintf("%d", s.Playback.Displayed))
	if s.Playback.LastFrame >= 0 {
		f.row(&b, "Last Frame", fmt.Sprintf("#%d", s.Playback.LastFrame))
	} else {
		f.row(&b, "Last Frame", t("none"))
	}
	if s.Playback.Reloads > 0 {
		f.row(&b, "Reloads", fmt.Sprintf("%d", s.Playback.Reloads))
	}
	b.WriteString("\n")

	// Settings
	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	f.row(&b, "Loop", f.yesNo(s.Settings.Loop))
	if s.Settings.FPS > 0 {
		f.row(&b, "Clock Rate", fmt.Sprintf("%g fps", s.Settings.FPS))
	}
	f.row(&b, "Keep Last Frame", f.yesNo(s.Settings.KeepLast))
	if s.Settings.MaxDuration > 0 {
		f.row(&b, "Max Duration", formatMs(s.Settings.MaxDuration))
	}
	if s.Settings.OutroMs > 0 {
		f.row(&b, "Outro", fmt.Sprintf("%d ms", s.Settings.OutroMs))
	}
	f.row(&b, "Watch", f.yesNo(s.Settings.Watch))
	if s.Settings.Output != "" {
		f.row(&b, "Output", s.Settings.Output)
	}
	b.WriteString("\n")

	b.WriteString("---\n\n")
	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		footer += fmt.Sprintf(" (gifplay %s)", f.version)
	}
	b.WriteString(footer + "\n")

	return b.String()
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- **%s**: %s\n", f.translate(label), value)
}

func (f *MarkdownFormatter) yesNo(v bool) string {
	if v {
		return f.translate("yes")
	}
	return f.translate("no")
}

func (f *MarkdownFormatter) loopCount(n int) string {
	switch {
	case n == 0:
		return f.translate("forever")
	case n < 0:
		return f.translate("once")
	default:
		return fmt.Sprintf(f.translate("%d times"), n)
	}
}

// formatMs renders d in whole milliseconds.
func formatMs(d time.Duration) string {
	return fmt.Sprintf("%d ms", d.Milliseconds())
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

// formatBytes formats a byte count with binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
