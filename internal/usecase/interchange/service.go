package interchange

import (
	"fmt"
	"log/slog"
	"os"

	"tsgpt/internal/domain"
	"tsgpt/internal/ports"
)

type Service struct {
	Codec  ports.RowCodec
	Logger *slog.Logger
}

func New(codec ports.RowCodec, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Codec: codec, Logger: logger.With("component", "interchange")}
}

// Export flattens the catalog into one row per message location. Contexts come
// in lexicographic order, messages in document order. A message without
// locations produces no rows. Plural messages export an empty translation.
func Export(cat *domain.Catalog) []ports.Row {
	var rows []ports.Row
	cat.Each(func(ctx *domain.Context, m *domain.Message) {
		for _, loc := range m.Locations {
			rows = append(rows, ports.Row{
				Context:     ctx.Name,
				Filename:    loc.Filename,
				Line:        loc.Line,
				Source:      m.Source,
				Translation: m.Translation,
			})
		}
	})
	return rows
}

// Import applies edited rows to the catalog. Each row overwrites the
// translation of the first message in its context with an identical source.
// Unknown contexts or sources, and rows that match a plural message, are
// skipped with a warning; import never adds contexts or messages and never
// touches locations.
func Import(rows []ports.Row, cat *domain.Catalog) domain.Report {
	rep := domain.Report{Mode: domain.ModeImport}
	for _, r := range rows {
		if err := apply(r, cat); err != nil {
			rep.Skipped++
			rep.Warn(err.Error())
			continue
		}
		rep.Applied++
	}
	return rep
}

func apply(r ports.Row, cat *domain.Catalog) error {
	ctx, ok := cat.Lookup(r.Context)
	if !ok {
		return domain.LookupMissf("context %q not found", r.Context)
	}
	for i := range ctx.Messages {
		if ctx.Messages[i].Source == r.Source {
			if ctx.Messages[i].Numerus {
				return domain.LookupMissf("source %q in context %q has plural forms", r.Source, r.Context)
			}
			ctx.Messages[i].SetTranslation(r.Translation)
			return nil
		}
	}
	return domain.LookupMissf("source %q not found in context %q", r.Source, r.Context)
}

// Write encodes the catalog rows and writes them to path.
func (s *Service) Write(path string, cat *domain.Catalog) (int, error) {
	rows := Export(cat)
	data, err := s.Codec.Encode(rows)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", s.Codec.Format(), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, domain.WrapIO("write", path, err)
	}
	s.Logger.Info("exported", "path", path, "rows", len(rows))
	return len(rows), nil
}

// Read decodes the file at path and imports its rows into cat. Undecodable
// records are reported as skipped rows, like lookup misses.
func (s *Service) Read(path string, cat *domain.Catalog) (domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Report{Mode: domain.ModeImport}, domain.WrapIO("read", path, err)
	}
	rows, issues, err := s.Codec.Decode(data)
	if err != nil {
		return domain.Report{Mode: domain.ModeImport}, fmt.Errorf("%s: %w", path, err)
	}
	rep := Import(rows, cat)
	for _, is := range issues {
		rep.Skipped++
		rep.Warn(fmt.Sprintf("record %d: %v", is.Record, is.Err))
	}
	for _, w := range rep.Warnings {
		s.Logger.Warn("row skipped", "path", path, "reason", w)
	}
	s.Logger.Info("imported", "path", path, "applied", rep.Applied, "skipped", rep.Skipped)
	return rep, nil
}

