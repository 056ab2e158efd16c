// Package reset clears translations back to the unfinished state.
package reset

import "tsgpt/internal/domain"

// Reset empties every translation in cat, plural forms included, and marks it
// unfinished. Sources and locations are left alone. Cleared counts messages
// that had any translated text.
func Reset(cat *domain.Catalog) domain.Report {
	rep := domain.Report{Mode: domain.ModeReset}
	cat.Each(func(_ *domain.Context, m *domain.Message) {
		if m.HasText() {
			rep.Cleared++
		}
		m.Clear()
	})
	return rep
}
