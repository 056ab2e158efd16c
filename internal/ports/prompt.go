package ports

import "context"

type PromptData struct {
    TgtLang  string
    TgtCode  string
    Context  string
    Phrases  []string
}

type PromptRenderer interface {
    Render(ctx context.Context, role string, data PromptData) (string, error)
}
