package jobs

import (
	"context"
	"log/slog"

	"tsgpt/internal/domain"
	"tsgpt/internal/ports"
	"tsgpt/internal/usecase/catalog"
	"tsgpt/internal/usecase/interchange"
	"tsgpt/internal/usecase/reset"
	"tsgpt/internal/usecase/translator"
)

type Deps struct {
	Store       *catalog.Store
	Interchange *interchange.Service
	// Translator is only needed in translate mode.
	Translator ports.Translator
	Logger     *slog.Logger
	Emitter    ports.EventEmitter
}

// Options describe a single invocation.
type Options struct {
	Mode         domain.Mode
	CatalogPath  string
	TemplatePath string
	Language     string // display name, e.g. "Spanish"
	LanguageCode string // e.g. "es_ES"
	BatchSize    int
	ImportPath   string
	ExportPath   string
	WriteBack    bool
	Export       bool
}

// Runner performs one of translate, reset, import or export per call against
// the catalog on disk.
type Runner struct {
	d   Deps
	log *slog.Logger
}

func NewRunner(d Deps) *Runner {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Runner{d: d, log: d.Logger.With(slog.String("component", "runner"))}
}

func (r *Runner) SetEmitter(em ports.EventEmitter) { r.d.Emitter = em }

// Run executes o and returns the report. A non-nil error is fatal: the catalog
// could not be loaded or saved, the import file could not be read, or the
// mode cannot run with the given dependencies. Recoverable problems only show
// up as report warnings.
func (r *Runner) Run(ctx context.Context, o Options) (domain.Report, error) {
	rep := domain.Report{Mode: o.Mode}
	if o.Mode == domain.ModeTranslate && r.d.Translator == nil {
		return rep, domain.ConfigErrorf("translate mode needs a translator")
	}
	if err := r.seed(o); err != nil {
		return rep, err
	}
	cat, err := r.d.Store.Load(o.CatalogPath)
	if err != nil {
		r.log.Error("load catalog", "path", o.CatalogPath, "error", err)
		return rep, err
	}
	total, finished := cat.Stats()
	r.log.Info("catalog loaded", "path", o.CatalogPath, "contexts", len(cat.Contexts), "messages", total, "finished", finished)
	r.emit("run.loaded", map[string]any{"mode": o.Mode, "messages": total, "finished": finished})
	// run.done closes progress output on every path past this point
	defer func() { r.emit("run.done", rep) }()

	writeBack := o.WriteBack
	export := o.Export
	switch o.Mode {
	case domain.ModeReset:
		rep.Merge(reset.Reset(cat))
		writeBack, export = true, false
	case domain.ModeImport:
		got, err := r.d.Interchange.Read(o.ImportPath, cat)
		if err != nil {
			return rep, err
		}
		rep.Merge(got)
	case domain.ModeTranslate:
		svc := translator.New(translator.Deps{Translator: r.d.Translator, Logger: r.d.Logger, Emitter: r.d.Emitter})
		rep.Merge(svc.Run(ctx, cat, translator.RunArgs{BatchSize: o.BatchSize, TargetLang: o.Language, TargetCode: o.LanguageCode}))
	case domain.ModeExport:
		writeBack, export = false, true
	default:
		return rep, domain.ConfigErrorf("unknown mode %q", o.Mode)
	}

	if writeBack {
		if err := r.d.Store.Save(o.CatalogPath, cat, o.LanguageCode); err != nil {
			r.log.Error("write catalog", "path", o.CatalogPath, "error", err)
			return rep, err
		}
		rep.Written = true
		r.log.Info("catalog written", "path", o.CatalogPath)
	}
	if export {
		if o.ExportPath == "" {
			return rep, domain.ConfigErrorf("export needs an output path")
		}
		n, err := r.d.Interchange.Write(o.ExportPath, cat)
		if err != nil {
			return rep, err
		}
		rep.Exported = n
	}
	return rep, nil
}

// seed creates the catalog from the template when it does not exist yet.
func (r *Runner) seed(o Options) error {
	if o.TemplatePath == "" || r.d.Store.Exists(o.CatalogPath) {
		return nil
	}
	if err := r.d.Store.Seed(o.TemplatePath, o.CatalogPath, o.LanguageCode); err != nil {
		return err
	}
	r.log.Info("catalog created from template", "template", o.TemplatePath, "path", o.CatalogPath, "language", o.LanguageCode)
	return nil
}

func (r *Runner) emit(name string, payload any) {
	if r.d.Emitter != nil {
		r.d.Emitter.Emit(name, payload)
	}
}
