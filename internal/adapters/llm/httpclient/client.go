package httpclient

import (
    "context"
    "encoding/json"
    "fmt"
    "regexp"
    "strings"
    "time"
    "unicode/utf8"

    "tsgpt/internal/adapters/prompt"
    "tsgpt/internal/domain"
    "tsgpt/internal/ports"

    "github.com/go-resty/resty/v2"
)

const (
    ProviderOpenAI     = "openai"
    ProviderOpenRouter = "openrouter"
    ProviderOllama     = "ollama"
)

// Client translates batches through a chat-completions style endpoint.
type Client struct {
    ProviderType string
    APIKey       string
    BaseURL      string
    Model        string
    Temperature  float64
    Prompts      ports.PromptRenderer
    http         *resty.Client
}

func New(p domain.Provider, prompts ports.PromptRenderer) *Client {
    timeout := time.Duration(p.TimeoutSec) * time.Second
    if timeout <= 0 { timeout = 60 * time.Second }
    if prompts == nil { prompts = prompt.New() }
    c := resty.New().SetTimeout(timeout).SetHeader("User-Agent", "tsgpt/1.0")
    return &Client{
        ProviderType: strings.ToLower(p.Type),
        APIKey:       p.APIKey,
        BaseURL:      p.BaseURL,
        Model:        p.Model,
        Temperature:  p.Temperature,
        Prompts:      prompts,
        http:         c,
    }
}

func (c *Client) Describe() (string, string) { return c.ProviderType, c.Model }

// TranslateBatch sends all phrases in one request and returns the pairs the
// model answered. Network and HTTP status failures wrap domain.ErrTransport,
// unusable replies wrap domain.ErrResponseFormat.
func (c *Client) TranslateBatch(ctx context.Context, phrases []string, targetLang, targetCode, contextHint string) (map[string]string, error) {
    if len(phrases) == 0 { return map[string]string{}, nil }
    data := ports.PromptData{TgtLang: targetLang, TgtCode: targetCode, Context: contextHint, Phrases: phrases}
    system, err := c.Prompts.Render(ctx, prompt.RoleSystem, data)
    if err != nil { return nil, fmt.Errorf("render system prompt: %w", err) }
    user, err := c.Prompts.Render(ctx, prompt.RoleUser, data)
    if err != nil { return nil, fmt.Errorf("render user prompt: %w", err) }
    messages := []map[string]string{
        {"role": "system", "content": system},
        {"role": "user", "content": user},
    }

    var content string
    switch c.ProviderType {
    case ProviderOpenAI, ProviderOpenRouter:
        content, err = c.chatCompletions(ctx, messages)
    case ProviderOllama:
        content, err = c.ollamaChat(ctx, messages)
    default:
        return nil, domain.ConfigErrorf("unsupported provider: %s", c.ProviderType)
    }
    if err != nil { return nil, err }
    return ParseTranslations(content)
}

func (c *Client) chatCompletions(ctx context.Context, messages []map[string]string) (string, error) {
    var url string
    r := c.http.R().SetContext(ctx).
        SetHeader("Authorization", "Bearer "+c.APIKey).
        SetHeader("Content-Type", "application/json")
    if c.ProviderType == ProviderOpenRouter {
        base := c.BaseURL
        if base == "" { base = "https://openrouter.ai" }
        url = openRouterURL(base, "/chat/completions")
        r.SetHeader("X-Title", "tsgpt")
    } else {
        base := c.BaseURL
        if base == "" { base = "https://api.openai.com/v1" }
        url = strings.TrimRight(base, "/") + "/chat/completions"
    }
    body := map[string]any{
        "model":       c.Model,
        "messages":    messages,
        "temperature": c.Temperature,
    }
    rr, err := r.SetBody(body).Post(url)
    if err != nil { return "", domain.WrapTransport(err) }
    if rr.IsError() {
        return "", domain.WrapTransport(fmt.Errorf("%s translate: %s; body: %s", c.ProviderType, rr.Status(), abbreviate(rr.String(), 500)))
    }
    var resp struct{ Choices []struct{ Message struct{ Content string `json:"content"` } `json:"message"` } `json:"choices"` }
    if err := json.Unmarshal(rr.Body(), &resp); err != nil {
        return "", domain.ResponseFormatf("decode %s reply: %v", c.ProviderType, err)
    }
    if len(resp.Choices) == 0 { return "", domain.ResponseFormatf("no choices returned") }
    return resp.Choices[0].Message.Content, nil
}

func (c *Client) ollamaChat(ctx context.Context, messages []map[string]string) (string, error) {
    base := c.BaseURL
    if base == "" { base = "http://localhost:11434" }
    url := strings.TrimRight(base, "/") + "/api/chat"
    body := map[string]any{
        "model":    c.Model,
        "messages": messages,
        "stream":   false,
        "options":  map[string]any{"temperature": c.Temperature},
    }
    rr, err := c.http.R().SetContext(ctx).SetHeader("Content-Type", "application/json").SetBody(body).Post(url)
    if err != nil { return "", domain.WrapTransport(err) }
    if rr.IsError() {
        return "", domain.WrapTransport(fmt.Errorf("ollama translate: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500)))
    }
    var resp struct{ Message struct{ Content string `json:"content"` } `json:"message"` }
    if err := json.Unmarshal(rr.Body(), &resp); err != nil {
        return "", domain.ResponseFormatf("decode ollama reply: %v", err)
    }
    return resp.Message.Content, nil
}

var fenceRE = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ParseTranslations decodes the model's JSON array of source/translation pairs,
// unwrapping a fenced code block when present. Pairs with an empty source are
// dropped; a later duplicate source wins.
func ParseTranslations(content string) (map[string]string, error) {
    s := strings.TrimSpace(content)
    if m := fenceRE.FindStringSubmatch(s); len(m) == 2 {
        s = m[1]
    }
    var pairs []struct {
        Source      string `json:"source"`
        Translation string `json:"translation"`
    }
    if err := json.Unmarshal([]byte(s), &pairs); err != nil {
        // Some models wrap the array in prose.
        i, j := strings.Index(s, "["), strings.LastIndex(s, "]")
        if i < 0 || j <= i || json.Unmarshal([]byte(s[i:j+1]), &pairs) != nil {
            return nil, domain.ResponseFormatf("expected JSON array of translations; content: %s", abbreviate(s, 2000))
        }
    }
    out := make(map[string]string, len(pairs))
    for _, p := range pairs {
        if p.Source == "" { continue }
        out[p.Source] = p.Translation
    }
    return out, nil
}

// abbreviate cuts s to at most n bytes without splitting a UTF-8 sequence.
func abbreviate(s string, n int) string {
    if len(s) <= n { return s }
    if n <= 0 { return "" }
    suffix := "..."
    if n <= 3 {
        suffix = ""
    } else {
        n -= 3
    }
    for n > 0 && !utf8.RuneStart(s[n]) {
        n--
    }
    return s[:n] + suffix
}

// openRouterURL builds a URL for OpenRouter whether base contains /api/v1 or not.
func openRouterURL(base, tail string) string {
    b := strings.TrimRight(base, "/")
    if idx := strings.Index(b, "/api/v1"); idx >= 0 {
        return b[:idx+len("/api/v1")] + tail
    }
    return b + "/api/v1" + tail
}
