// Package ts reads and writes Qt Linguist translation source catalogs.
package ts

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"

	"tsgpt/internal/domain"
)

const (
	formatVersion  = "2.1"
	pendingType    = "unfinished"
	indent         = "    "
	doctypeTS      = "<!DOCTYPE TS>\n"
)

type Codec struct{}

func New() *Codec { return &Codec{} }

func (c *Codec) Format() string { return "ts" }

type parseState int

const (
	inDocument parseState = iota
	inRoot
	inContext
	inMessage
	done
)

// parser is the state machine fed by reader events.
type parser struct {
	cat   *domain.Catalog
	state parseState

	ctxName    string
	hasName    bool
	messages   []domain.Message
	msg        domain.Message
	hasSource  bool
	hasTrans   bool
}

// Parse builds a catalog from a TS document. On failure it returns an empty
// catalog together with an error wrapping domain.ErrParse.
func (c *Codec) Parse(data []byte) (*domain.Catalog, error) {
	p := &parser{cat: domain.NewCatalog()}
	rd := newReader(bytes.NewReader(data))
	for {
		ev, err := rd.next()
		if err != nil {
			return domain.NewCatalog(), domain.WrapParse(fmt.Sprintf("offset %d", rd.offset()), err)
		}
		if err := p.step(ev); err != nil {
			return domain.NewCatalog(), domain.WrapParse(fmt.Sprintf("offset %d", rd.offset()), err)
		}
		if ev.kind == evEOF {
			return p.cat, nil
		}
	}
}

func (p *parser) step(ev event) error {
	switch p.state {
	case inDocument:
		switch ev.kind {
		case evRootStart:
			p.cat.Version = ev.attrs["version"]
			p.cat.Language = ev.attrs["language"]
			p.state = inRoot
			return nil
		case evEOF:
			return fmt.Errorf("document has no TS root element")
		}
	case inRoot:
		switch ev.kind {
		case evContextStart:
			p.ctxName, p.hasName, p.messages = "", false, nil
			p.state = inContext
			return nil
		case evRootEnd:
			p.state = done
			return nil
		}
	case inContext:
		switch ev.kind {
		case evContextName:
			if p.hasName {
				return fmt.Errorf("context %q has more than one name", p.ctxName)
			}
			p.ctxName, p.hasName = ev.text, true
			return nil
		case evMessageStart:
			p.msg, p.hasSource, p.hasTrans = domain.Message{Numerus: ev.attrs["numerus"] == "yes"}, false, false
			p.state = inMessage
			return nil
		case evContextEnd:
			if !p.hasName || p.ctxName == "" {
				return fmt.Errorf("context without a name")
			}
			ctx := p.cat.Context(p.ctxName)
			ctx.Messages = append(ctx.Messages, p.messages...)
			p.state = inRoot
			return nil
		}
	case inMessage:
		switch ev.kind {
		case evLocation:
			p.msg.Locations = append(p.msg.Locations, domain.Location{Filename: ev.attrs["filename"], Line: ev.line, Relative: ev.relative})
			return nil
		case evSource:
			if p.hasSource {
				return fmt.Errorf("message %q has more than one source", p.msg.Source)
			}
			p.msg.Source, p.hasSource = ev.text, true
			return nil
		case evTranslation:
			if p.hasTrans {
				return fmt.Errorf("message %q has more than one translation", p.msg.Source)
			}
			if p.msg.Numerus || len(ev.forms) > 0 {
				p.msg.Numerus = true
				p.msg.Forms = ev.forms
				p.msg.State = domain.FormsState(ev.forms)
			} else {
				p.msg.SetTranslation(ev.text)
			}
			if ev.attrs["type"] == pendingType {
				p.msg.State = domain.Unfinished
			}
			p.hasTrans = true
			return nil
		case evMessageEnd:
			if !p.hasSource {
				return fmt.Errorf("message in context %q has no source", p.ctxName)
			}
			p.messages = append(p.messages, p.msg)
			p.state = inContext
			return nil
		}
	case done:
		if ev.kind == evEOF {
			return nil
		}
	}
	return fmt.Errorf("unexpected %s", ev.kind)
}

// Serialize writes the catalog as a TS document. Contexts are emitted in
// lexicographic order of their names; messages keep their in-memory order.
// A translation carries the pending marker exactly when it has no text.
func (c *Codec) Serialize(cat *domain.Catalog, language string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(doctypeTS)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", indent)
	w := &tokenWriter{enc: enc}

	w.start("TS", xml.Attr{Name: xml.Name{Local: "version"}, Value: formatVersion},
		xml.Attr{Name: xml.Name{Local: "language"}, Value: language})
	for _, name := range cat.Names() {
		ctx := cat.Contexts[name]
		w.start("context")
		w.textElement("name", ctx.Name)
		for _, m := range ctx.Messages {
			if m.Numerus {
				w.start("message", xml.Attr{Name: xml.Name{Local: "numerus"}, Value: "yes"})
			} else {
				w.start("message")
			}
			for _, loc := range m.Locations {
				w.start("location",
					xml.Attr{Name: xml.Name{Local: "filename"}, Value: loc.Filename},
					xml.Attr{Name: xml.Name{Local: "line"}, Value: formatLine(loc)})
				w.end("location")
			}
			w.textElement("source", m.Source)
			if !m.HasText() {
				w.start("translation", xml.Attr{Name: xml.Name{Local: "type"}, Value: pendingType})
			} else {
				w.start("translation")
			}
			if m.Numerus {
				for _, f := range m.Forms {
					w.textElement("numerusform", f)
				}
			} else {
				w.chars(m.Translation)
			}
			w.end("translation")
			w.end("message")
		}
		w.end("context")
	}
	w.end("TS")
	if w.err != nil {
		return nil, fmt.Errorf("encode catalog: %w", w.err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func formatLine(loc domain.Location) string {
	if loc.Relative {
		return fmt.Sprintf("%+d", loc.Line)
	}
	return strconv.Itoa(loc.Line)
}

var (
	rootTagRE      = regexp.MustCompile(`<TS\b[^>]*>`)
	languageAttrRE = regexp.MustCompile(`\slanguage\s*=\s*"[^"]*"`)
)

// CreateFromTemplate copies a template catalog, substituting the language
// attribute of the TS start tag. Everything else, sourcelanguage and message
// text included, is copied byte for byte. The template must itself parse as a
// catalog.
func (c *Codec) CreateFromTemplate(template []byte, language string) ([]byte, error) {
	if _, err := c.Parse(template); err != nil {
		return nil, err
	}
	root := rootTagRE.FindIndex(template)
	if root == nil {
		return nil, domain.ParseErrorf("template has no TS root element")
	}
	tag := template[root[0]:root[1]]
	attr := []byte(`language="` + escapeAttr(language) + `"`)

	// keep the whitespace byte that precedes the attribute
	var newTag []byte
	if loc := languageAttrRE.FindIndex(tag); loc != nil {
		newTag = append(newTag, tag[:loc[0]+1]...)
		newTag = append(newTag, attr...)
		newTag = append(newTag, tag[loc[1]:]...)
	} else {
		n := len("<TS")
		newTag = append(newTag, tag[:n]...)
		newTag = append(newTag, ' ')
		newTag = append(newTag, attr...)
		newTag = append(newTag, tag[n:]...)
	}

	out := make([]byte, 0, len(template)+len(attr)+1)
	out = append(out, template[:root[0]]...)
	out = append(out, newTag...)
	out = append(out, template[root[1]:]...)
	return out, nil
}

func escapeAttr(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// tokenWriter keeps the first encoder error so callers can emit a run of
// tokens and check once.
type tokenWriter struct {
	enc *xml.Encoder
	err error
}

func (w *tokenWriter) emit(t xml.Token) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(t)
	}
}

func (w *tokenWriter) start(name string, attrs ...xml.Attr) {
	w.emit(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *tokenWriter) end(name string) { w.emit(xml.EndElement{Name: xml.Name{Local: name}}) }

func (w *tokenWriter) chars(s string) {
	if s != "" {
		w.emit(xml.CharData(s))
	}
}

func (w *tokenWriter) textElement(name, text string) {
	w.start(name)
	w.chars(text)
	w.end(name)
}
