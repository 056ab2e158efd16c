package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"tsgpt/internal/domain"
)

// progress renders translation events as a progress bar counting phrases.
type progress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgress(w io.Writer) *progress { return &progress{w: w} }

func (p *progress) Emit(name string, payload any) {
	fields, _ := payload.(map[string]any)
	switch name {
	case "run.start":
		total, _ := fields["phrases"].(int)
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan]translating[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	case "batch.start":
		if p.bar != nil {
			if c, ok := fields["context"].(string); ok {
				p.bar.Describe(fmt.Sprintf("[cyan]%s[reset]", c))
			}
		}
	case "batch.done":
		if p.bar != nil {
			n, _ := fields["size"].(int)
			_ = p.bar.Add(n)
		}
	case "run.done":
		if p.bar != nil {
			_ = p.bar.Finish()
			fmt.Fprintln(p.w)
		}
	}
}

func printSummary(w io.Writer, rep domain.Report) {
	if rep.Mode == "" {
		return
	}
	ok := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow)

	ok.Fprintf(w, "%s:", rep.Mode)
	switch rep.Mode {
	case domain.ModeTranslate:
		fmt.Fprintf(w, " %d phrases in %d batches, %d messages translated", rep.Sent, rep.Batches, rep.Translated)
		if rep.FailedBatches > 0 {
			warn.Fprintf(w, ", %d batches failed", rep.FailedBatches)
		}
	case domain.ModeReset:
		fmt.Fprintf(w, " %d translations cleared", rep.Cleared)
	case domain.ModeImport:
		fmt.Fprintf(w, " %d rows applied, %d skipped", rep.Applied, rep.Skipped)
	case domain.ModeExport:
		fmt.Fprintf(w, " %d rows exported", rep.Exported)
	}
	if rep.Written {
		fmt.Fprint(w, ", catalog saved")
	}
	if rep.Exported > 0 && rep.Mode != domain.ModeExport {
		fmt.Fprintf(w, ", %d rows exported", rep.Exported)
	}
	fmt.Fprintln(w)
	for _, msg := range rep.Warnings {
		warn.Fprintf(w, "warning: %s\n", msg)
	}
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprintf(w, "error: %v\n", err)
}
