package domain

// Mode selects the single operation a run performs.
type Mode string

const (
	ModeTranslate Mode = "translate"
	ModeReset     Mode = "reset"
	ModeImport    Mode = "import"
	ModeExport    Mode = "export"
)

// Report summarises one run. Warnings are non-fatal diagnostics.
type Report struct {
	Mode          Mode     `json:"mode"`
	Batches       int      `json:"batches"`
	FailedBatches int      `json:"failed_batches"`
	Sent          int      `json:"sent"`
	Translated    int      `json:"translated"`
	Applied       int      `json:"applied"`
	Skipped       int      `json:"skipped"`
	Cleared       int      `json:"cleared"`
	Exported      int      `json:"exported"`
	Written       bool     `json:"written"`
	Warnings      []string `json:"warnings"`
}

func (r *Report) Warn(msg string) { r.Warnings = append(r.Warnings, msg) }

// Merge folds counters and warnings of another report into r.
func (r *Report) Merge(o Report) {
	r.Batches += o.Batches
	r.FailedBatches += o.FailedBatches
	r.Sent += o.Sent
	r.Translated += o.Translated
	r.Applied += o.Applied
	r.Skipped += o.Skipped
	r.Cleared += o.Cleared
	r.Exported += o.Exported
	r.Warnings = append(r.Warnings, o.Warnings...)
}
