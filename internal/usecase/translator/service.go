package translator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"tsgpt/internal/domain"
	"tsgpt/internal/ports"
)

const DefaultBatchSize = 50

type Deps struct {
	Translator ports.Translator
	Logger     *slog.Logger
	// Emitter is optional
	Emitter ports.EventEmitter
}

// Service fills empty translations of a catalog batch by batch.
type Service struct{ d Deps }

func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	d.Logger = d.Logger.With(slog.String("component", "translator"))
	return &Service{d: d}
}

type RunArgs struct {
	BatchSize  int
	TargetLang string // display name, e.g. "Turkish"
	TargetCode string // e.g. "tr_TR"
}

// Batch is a group of phrases of one context sent in a single call.
type Batch struct {
	Context string
	Phrases []string
}

// Plan lists the batches a run would send, in dispatch order. Contexts are
// walked in lexicographic order and messages in document order. A phrase is
// planned once per context; messages with a translation, without source text
// or with plural forms are never planned.
func Plan(cat *domain.Catalog, size int) []Batch {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out []Batch
	for _, name := range cat.Names() {
		seen := map[string]struct{}{}
		var phrases []string
		for _, m := range cat.Contexts[name].Messages {
			if m.Numerus || m.Translation != "" || m.Source == "" {
				continue
			}
			if _, ok := seen[m.Source]; ok {
				continue
			}
			seen[m.Source] = struct{}{}
			phrases = append(phrases, m.Source)
			if len(phrases) >= size {
				out = append(out, Batch{Context: name, Phrases: phrases})
				phrases = nil
			}
		}
		if len(phrases) > 0 {
			out = append(out, Batch{Context: name, Phrases: phrases})
		}
	}
	return out
}

// Run sends every planned batch to the translator, strictly one at a time, and
// merges the answers into cat. A failed batch leaves its messages untouched and
// is reported as a warning; the run always continues with the next batch.
func (s *Service) Run(ctx context.Context, cat *domain.Catalog, a RunArgs) domain.Report {
	rep := domain.Report{Mode: domain.ModeTranslate}
	batches := Plan(cat, a.BatchSize)
	phrases := 0
	for _, b := range batches {
		phrases += len(b.Phrases)
	}
	s.emit("run.start", map[string]any{"batches": len(batches), "phrases": phrases})
	s.d.Logger.Info("translation started", "batches", len(batches), "phrases", phrases, "lang", a.TargetLang, "code", a.TargetCode)

	for i, b := range batches {
		s.emit("batch.start", map[string]any{"index": i, "context": b.Context, "size": len(b.Phrases)})
		rep.Batches++
		rep.Sent += len(b.Phrases)

		got, err := s.d.Translator.TranslateBatch(ctx, b.Phrases, a.TargetLang, a.TargetCode, b.Context)
		if err != nil {
			rep.FailedBatches++
			msg := fmt.Sprintf("batch %d (%s, %d phrases) failed: %v", i+1, b.Context, len(b.Phrases), err)
			rep.Warn(msg)
			s.d.Logger.Warn("batch failed", "batch", i+1, "context", b.Context, "phrases", len(b.Phrases), "error", err)
			s.emit("batch.done", map[string]any{"index": i, "context": b.Context, "size": len(b.Phrases), "error": err.Error()})
			continue
		}
		n := merge(cat.Contexts[b.Context], got)
		rep.Translated += n
		for _, w := range placeholderWarnings(b.Context, b.Phrases, got) {
			rep.Warn(w)
			s.d.Logger.Warn(w)
		}
		if missing := len(b.Phrases) - answered(b.Phrases, got); missing > 0 {
			s.d.Logger.Debug("batch answered partially", "context", b.Context, "missing", missing)
		}
		s.emit("batch.done", map[string]any{"index": i, "context": b.Context, "size": len(b.Phrases), "translated": n})
	}

	s.d.Logger.Info("translation finished", "batches", rep.Batches, "failed", rep.FailedBatches, "translated", rep.Translated)
	return rep
}

// merge writes translations into every still-empty message of the context
// whose source has a non-empty answer, and returns the number of messages
// filled. Duplicate sources all receive the same text. Plural messages are
// left alone.
func merge(c *domain.Context, got map[string]string) int {
	if c == nil {
		return 0
	}
	n := 0
	for i := range c.Messages {
		m := &c.Messages[i]
		if m.Numerus || m.Translation != "" {
			continue
		}
		if tr, ok := got[m.Source]; ok && tr != "" {
			m.SetTranslation(tr)
			n++
		}
	}
	return n
}

func answered(phrases []string, got map[string]string) int {
	n := 0
	for _, p := range phrases {
		if got[p] != "" {
			n++
		}
	}
	return n
}

func (s *Service) emit(name string, payload any) {
	if s.d.Emitter != nil {
		s.d.Emitter.Emit(name, payload)
	}
}

// Qt argument markers: %1..%99, %L1, %n
var placeholderRE = regexp.MustCompile(`%L?\d{1,2}|%n`)

func extractPlaceholders(s string) []string {
	m := placeholderRE.FindAllString(s, -1)
	if len(m) == 0 {
		return nil
	}
	uniq := make(map[string]struct{}, len(m))
	for _, v := range m {
		uniq[v] = struct{}{}
	}
	out := make([]string, 0, len(uniq))
	for v := range uniq {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// placeholderWarnings flags answers that dropped an argument marker of their
// source. The translation is still merged.
func placeholderWarnings(context string, phrases []string, got map[string]string) []string {
	var out []string
	for _, p := range phrases {
		tr, ok := got[p]
		if !ok || tr == "" {
			continue
		}
		var missing []string
		for _, ph := range extractPlaceholders(p) {
			if !strings.Contains(tr, ph) {
				missing = append(missing, ph)
			}
		}
		if len(missing) > 0 {
			out = append(out, fmt.Sprintf("%s: translation of %q lost placeholder %s", context, p, strings.Join(missing, ", ")))
		}
	}
	return out
}
