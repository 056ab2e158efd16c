package ts

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

type eventKind int

const (
	evEOF eventKind = iota
	evRootStart
	evRootEnd
	evContextStart
	evContextEnd
	evContextName
	evMessageStart
	evMessageEnd
	evLocation
	evSource
	evTranslation
)

func (k eventKind) String() string {
	switch k {
	case evEOF:
		return "end of document"
	case evRootStart:
		return "<TS>"
	case evRootEnd:
		return "</TS>"
	case evContextStart:
		return "<context>"
	case evContextEnd:
		return "</context>"
	case evContextName:
		return "<name>"
	case evMessageStart:
		return "<message>"
	case evMessageEnd:
		return "</message>"
	case evLocation:
		return "<location>"
	case evSource:
		return "<source>"
	case evTranslation:
		return "<translation>"
	}
	return "unknown"
}

type event struct {
	kind eventKind
	text string
	// attributes: version/language for the root, numerus for a message,
	// filename/line for a location, type for a translation
	attrs    map[string]string
	line     int
	relative bool
	forms    []string // numerusform texts of a translation
}

// reader pulls typed catalog events out of an XML token stream. Elements the
// catalog model does not carry (comments, extra data) are skipped whole.
type reader struct {
	dec *xml.Decoder
}

func newReader(r io.Reader) *reader {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	return &reader{dec: dec}
}

func (r *reader) next() (event, error) {
	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return event{kind: evEOF}, nil
		}
		if err != nil {
			return event{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "TS":
				return event{kind: evRootStart, attrs: attrMap(t.Attr)}, nil
			case "context":
				return event{kind: evContextStart}, nil
			case "message":
				return event{kind: evMessageStart, attrs: attrMap(t.Attr)}, nil
			case "name":
				text, err := r.text()
				return event{kind: evContextName, text: text}, err
			case "source":
				text, err := r.text()
				return event{kind: evSource, text: text}, err
			case "translation":
				attrs := attrMap(t.Attr)
				text, forms, err := r.translation()
				return event{kind: evTranslation, text: text, forms: forms, attrs: attrs}, err
			case "location":
				attrs := attrMap(t.Attr)
				if err := r.dec.Skip(); err != nil {
					return event{}, err
				}
				ev := event{kind: evLocation, attrs: attrs}
				if raw := strings.TrimSpace(attrs["line"]); raw != "" {
					n, err := strconv.Atoi(raw)
					if err != nil {
						return event{}, errors.New("location line " + strconv.Quote(raw) + " is not an integer")
					}
					ev.line = n
					ev.relative = raw[0] == '+' || raw[0] == '-'
				}
				return ev, nil
			default:
				if err := r.dec.Skip(); err != nil {
					return event{}, err
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "TS":
				return event{kind: evRootEnd}, nil
			case "context":
				return event{kind: evContextEnd}, nil
			case "message":
				return event{kind: evMessageEnd}, nil
			}
		}
	}
}

// text collects character data up to the end of the current element. Text
// of an element with nested markup is not representable and comes back empty.
func (r *reader) text() (string, error) {
	var b strings.Builder
	nested := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			nested = true
			if err := r.dec.Skip(); err != nil {
				return "", err
			}
		case xml.EndElement:
			if nested {
				return "", nil
			}
			return b.String(), nil
		}
	}
}

// translation reads a translation element. Plural translations hold their
// text in numerusform children, which are returned as forms with an empty
// text; whitespace between the forms is dropped.
func (r *reader) translation() (string, []string, error) {
	var (
		b      strings.Builder
		forms  []string
		nested bool
	)
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return "", nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			nested = true
			if t.Name.Local == "numerusform" {
				f, err := r.text()
				if err != nil {
					return "", nil, err
				}
				forms = append(forms, f)
				continue
			}
			if err := r.dec.Skip(); err != nil {
				return "", nil, err
			}
		case xml.EndElement:
			if nested {
				return "", forms, nil
			}
			return b.String(), nil, nil
		}
	}
}

func (r *reader) offset() int64 { return r.dec.InputOffset() }

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}
