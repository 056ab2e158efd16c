package ports

import "context"

// Translator converts source phrases into a target language.
//
// The returned map is best effort: it may hold any subset of the requested
// phrases. A non-nil error means nothing from the call can be trusted.
type Translator interface {
    TranslateBatch(ctx context.Context, phrases []string, targetLang, targetCode, contextHint string) (map[string]string, error)
}

// Describer is implemented by translators that can name their backend,
// used to key the translation memory.
type Describer interface {
    Describe() (provider, model string)
}
