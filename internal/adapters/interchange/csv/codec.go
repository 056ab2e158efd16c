// Package csv encodes interchange rows as spreadsheet-friendly CSV.
package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"tsgpt/internal/domain"
	"tsgpt/internal/ports"
)

// Header is the fixed first record of every interchange file.
var Header = []string{"name", "filename", "line", "source", "translation"}

var bom = []byte{0xEF, 0xBB, 0xBF}

type Codec struct {
	Comma rune
}

func New() *Codec { return &Codec{Comma: ','} }

// WithSeparator accepts "comma", "semicolon", "tab" or a single character.
func WithSeparator(sep string) (*Codec, error) {
	c := New()
	switch strings.ToLower(strings.TrimSpace(sep)) {
	case "", "comma", ",":
	case "semicolon", ";":
		c.Comma = ';'
	case "tab", `\t`, "\t":
		c.Comma = '\t'
	default:
		r := []rune(sep)
		if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
			return nil, domain.ConfigErrorf("unsupported csv separator %q", sep)
		}
		c.Comma = r[0]
	}
	return c, nil
}

func (c *Codec) Format() string { return "csv" }

// Encode writes a UTF-8 BOM, the header and one record per row. Fields with
// the separator, quotes or line breaks are quoted with doubled quotes.
func (c *Codec) Encode(rows []ports.Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(bom)
	w := csv.NewWriter(&buf)
	w.Comma = c.comma()
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Context, r.Filename, strconv.Itoa(r.Line), r.Source, r.Translation}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode skips the header and returns every well-formed data row. Records with
// too few fields or a non-integer line are reported as issues and skipped.
func (c *Codec) Decode(data []byte) ([]ports.Row, []ports.RowIssue, error) {
	data = stripBOM(data)
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.Comma = c.comma()
	r.FieldsPerRecord = -1
	var (
		rows   []ports.Row
		issues []ports.RowIssue
	)
	record := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		record++
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			issues = append(issues, ports.RowIssue{Record: record, Err: domain.WrapParse("csv", err)})
			continue
		}
		if err != nil {
			return nil, nil, domain.WrapParse("csv", err)
		}
		if record == 1 {
			continue
		}
		if len(rec) < len(Header) {
			issues = append(issues, ports.RowIssue{Record: record, Err: domain.ParseErrorf("expected %d fields, got %d", len(Header), len(rec))})
			continue
		}
		lineStr := strings.TrimSpace(rec[2])
		line, err := strconv.Atoi(lineStr)
		if err != nil {
			issues = append(issues, ports.RowIssue{Record: record, Err: domain.ParseErrorf("invalid line number %q", lineStr)})
			continue
		}
		rows = append(rows, ports.Row{
			Context:     strings.TrimSpace(rec[0]),
			Filename:    strings.TrimSpace(rec[1]),
			Line:        line,
			Source:      rec[3],
			Translation: rec[4],
		})
	}
	return rows, issues, nil
}

func (c *Codec) comma() rune {
	if c.Comma == 0 {
		return ','
	}
	return c.Comma
}

func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, bom) {
		return b[len(bom):]
	}
	return b
}
