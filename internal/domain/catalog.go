package domain

import "sort"

// State is the completion state of a message translation.
type State int

const (
	Unfinished State = iota
	Finished
)

func (s State) String() string {
	if s == Finished {
		return "finished"
	}
	return "unfinished"
}

// StateOf derives the state from the translation text.
func StateOf(translation string) State {
	if translation == "" {
		return Unfinished
	}
	return Finished
}

// Location is descriptive only and never takes part in matching. A relative
// location stores a signed offset from the previous location of the file, as
// lupdate writes it ("+3").
type Location struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Relative bool   `json:"relative,omitempty"`
}

// Message is one translatable string. Plural messages (Numerus) carry their
// translations in Forms and leave Translation empty.
type Message struct {
	Source      string     `json:"source"`
	Translation string     `json:"translation"`
	State       State      `json:"state"`
	Locations   []Location `json:"locations"`
	Numerus     bool       `json:"numerus,omitempty"`
	Forms       []string   `json:"forms,omitempty"`
}

// SetTranslation overwrites the translation and derives the state from it.
func (m *Message) SetTranslation(text string) {
	m.Translation = text
	m.State = StateOf(text)
}

// HasText reports whether the message carries any translated text.
func (m *Message) HasText() bool {
	if m.Translation != "" {
		return true
	}
	for _, f := range m.Forms {
		if f != "" {
			return true
		}
	}
	return false
}

// Clear empties the translation and every plural form, keeping the number of
// forms.
func (m *Message) Clear() {
	m.SetTranslation("")
	for i := range m.Forms {
		m.Forms[i] = ""
	}
}

// FormsState is Finished when there is at least one form and none is empty.
func FormsState(forms []string) State {
	if len(forms) == 0 {
		return Unfinished
	}
	for _, f := range forms {
		if f == "" {
			return Unfinished
		}
	}
	return Finished
}

type Context struct {
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// Catalog holds every context of one target locale keyed by context name.
type Catalog struct {
	Version  string              `json:"version"`
	Language string              `json:"language"`
	Contexts map[string]*Context `json:"contexts"`
}

func NewCatalog() *Catalog {
	return &Catalog{Contexts: map[string]*Context{}}
}

// Context returns the named context, creating it when absent.
func (c *Catalog) Context(name string) *Context {
	if c.Contexts == nil {
		c.Contexts = map[string]*Context{}
	}
	ctx, ok := c.Contexts[name]
	if !ok {
		ctx = &Context{Name: name}
		c.Contexts[name] = ctx
	}
	return ctx
}

// Lookup returns the named context without creating it.
func (c *Catalog) Lookup(name string) (*Context, bool) {
	ctx, ok := c.Contexts[name]
	return ctx, ok
}

// Names returns the context names in lexicographic order. Serialization,
// export and translation all walk contexts in this order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each visits every message in context order, then document order.
func (c *Catalog) Each(fn func(ctx *Context, m *Message)) {
	for _, name := range c.Names() {
		ctx := c.Contexts[name]
		for i := range ctx.Messages {
			fn(ctx, &ctx.Messages[i])
		}
	}
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{Version: c.Version, Language: c.Language, Contexts: make(map[string]*Context, len(c.Contexts))}
	for name, ctx := range c.Contexts {
		cp := &Context{Name: ctx.Name, Messages: make([]Message, len(ctx.Messages))}
		for i, m := range ctx.Messages {
			m.Locations = append([]Location(nil), m.Locations...)
			if m.Forms != nil {
				m.Forms = append([]string(nil), m.Forms...)
			}
			cp.Messages[i] = m
		}
		out.Contexts[name] = cp
	}
	return out
}

// Stats counts messages by state.
func (c *Catalog) Stats() (total, finished int) {
	c.Each(func(_ *Context, m *Message) {
		total++
		if m.State == Finished {
			finished++
		}
	})
	return total, finished
}
