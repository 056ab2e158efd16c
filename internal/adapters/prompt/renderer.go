package prompt

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "os"
    "text/template"

    "tsgpt/internal/domain"
    "tsgpt/internal/ports"
)

const (
    RoleSystem = "system"
    RoleUser   = "user"
)

type Renderer struct {
    bodies map[string]string
}

func New() *Renderer {
    return &Renderer{bodies: map[string]string{RoleSystem: builtinSystem, RoleUser: builtinUser}}
}

// Override replaces the template body of role with the contents of path.
// The body is parsed immediately so a broken override fails at startup.
func (r *Renderer) Override(role, path string) error {
    if _, ok := r.bodies[role]; !ok {
        return domain.ConfigErrorf("unknown prompt role %q", role)
    }
    b, err := os.ReadFile(path)
    if err != nil {
        return domain.WrapIO("read", path, err)
    }
    if _, err := parse(string(b)); err != nil {
        return domain.ConfigErrorf("prompt %s: %v", path, err)
    }
    r.bodies[role] = string(b)
    return nil
}

func (r *Renderer) Render(ctx context.Context, role string, data ports.PromptData) (string, error) {
    body, ok := r.bodies[role]
    if !ok {
        return "", fmt.Errorf("unknown prompt role %q", role)
    }
    tpl, err := parse(body)
    if err != nil { return "", err }
    var buf bytes.Buffer
    if err := tpl.Execute(&buf, data); err != nil { return "", err }
    return buf.String(), nil
}

func parse(body string) (*template.Template, error) {
    return template.New("prompt").Funcs(template.FuncMap{"json": toJSON}).Parse(body)
}

func toJSON(v any) (string, error) {
    var buf bytes.Buffer
    enc := json.NewEncoder(&buf)
    enc.SetEscapeHTML(false)
    enc.SetIndent("", "  ")
    if err := enc.Encode(v); err != nil { return "", err }
    return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

const builtinSystem = "You are a translation assistant for software user interfaces. " +
    "Keep placeholders such as %1, %L1 and %n, HTML tags, accelerator ampersands and surrounding whitespace exactly as in the source."

const builtinUser = "Translate the following phrases into {{.TgtLang}} ({{.TgtCode}}). " +
    "These phrases are part of a software system under the context of {{.Context}}. " +
    "Use that context to choose accurate, natural translations. " +
    "Return only a JSON array of objects in the format [{\"source\": \"<original>\", \"translation\": \"<translated>\"}], " +
    "copying each source exactly as given.\nPhrases:\n{{json .Phrases}}"
