package ts_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsgpt/internal/adapters/catalog/ts"
	"tsgpt/internal/domain"
)

const sample = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="tr_TR">
<context>
    <name>MainWindow</name>
    <message>
        <location filename="../mainwindow.ui" line="14"/>
        <location filename="../mainwindow.cpp" line="+3"/>
        <source>Save</source>
        <translation type="unfinished"></translation>
    </message>
    <message>
        <location filename="../mainwindow.cpp" line="40"/>
        <source>Open &amp; close</source>
        <comment>menu entry</comment>
        <translation>Aç &amp; kapat</translation>
    </message>
</context>
<context>
    <name>About</name>
    <message>
        <source>Version %1</source>
        <translation type="unfinished">Sürüm %1</translation>
    </message>
</context>
</TS>
`

func TestParse(t *testing.T) {
	cat, err := ts.New().Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "2.1", cat.Version)
	assert.Equal(t, "tr_TR", cat.Language)
	assert.Equal(t, []string{"About", "MainWindow"}, cat.Names())

	main := cat.Contexts["MainWindow"]
	require.Len(t, main.Messages, 2)
	save := main.Messages[0]
	assert.Equal(t, "Save", save.Source)
	assert.Equal(t, "", save.Translation)
	assert.Equal(t, domain.Unfinished, save.State)
	assert.Equal(t, []domain.Location{{Filename: "../mainwindow.ui", Line: 14}, {Filename: "../mainwindow.cpp", Line: 3, Relative: true}}, save.Locations)

	open := main.Messages[1]
	assert.Equal(t, "Open & close", open.Source)
	assert.Equal(t, "Aç & kapat", open.Translation)
	assert.Equal(t, domain.Finished, open.State)

	draft := cat.Contexts["About"].Messages[0]
	assert.Equal(t, "Sürüm %1", draft.Translation)
	assert.Equal(t, domain.Unfinished, draft.State)
	assert.Empty(t, draft.Locations)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"not xml", "hello"},
		{"wrong root content", `<TS><message><source>x</source></message></TS>`},
		{"unclosed", `<TS><context><name>A</name>`},
		{"context without name", `<TS><context><message><source>x</source></message></context></TS>`},
		{"message without source", `<TS><context><name>A</name><message><translation>y</translation></message></context></TS>`},
		{"two sources", `<TS><context><name>A</name><message><source>x</source><source>y</source></message></context></TS>`},
		{"bad line", `<TS><context><name>A</name><message><location filename="a" line="ten"/><source>x</source></message></context></TS>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := ts.New().Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrParse)
			require.NotNil(t, cat)
			assert.Empty(t, cat.Contexts)
		})
	}
}

func TestParseMergesRepeatedContext(t *testing.T) {
	doc := `<TS><context><name>A</name><message><source>one</source></message></context>` +
		`<context><name>A</name><message><source>two</source></message></context></TS>`
	cat, err := ts.New().Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, cat.Contexts["A"].Messages, 2)
	assert.Equal(t, "one", cat.Contexts["A"].Messages[0].Source)
	assert.Equal(t, "two", cat.Contexts["A"].Messages[1].Source)
}

func TestSerializeOrdersContextsAndMarksPending(t *testing.T) {
	cat := domain.NewCatalog()
	z := cat.Context("Zeta")
	z.Messages = append(z.Messages, domain.Message{Source: "Quit", Translation: "Çık", State: domain.Finished})
	a := cat.Context("Alpha")
	a.Messages = append(a.Messages,
		domain.Message{Source: "Save", Locations: []domain.Location{{Filename: "main.cpp", Line: 10}}},
		// state says finished but the text is empty: output follows the text
		domain.Message{Source: "Load", State: domain.Finished},
	)

	out, err := ts.New().Serialize(cat, "es_ES")
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, "<!DOCTYPE TS>")
	assert.Contains(t, doc, `<TS version="2.1" language="es_ES">`)
	assert.Less(t, strings.Index(doc, "<name>Alpha</name>"), strings.Index(doc, "<name>Zeta</name>"))
	assert.Less(t, strings.Index(doc, "<source>Save</source>"), strings.Index(doc, "<source>Load</source>"))
	assert.Contains(t, doc, `<location filename="main.cpp" line="10"></location>`)
	assert.Equal(t, 2, strings.Count(doc, `<translation type="unfinished"></translation>`))
	assert.Contains(t, doc, "<translation>Çık</translation>")
}

func TestRoundTrip(t *testing.T) {
	cat := domain.NewCatalog()
	ctx := cat.Context("Dialog <Main>")
	ctx.Messages = []domain.Message{
		{Source: "Line one\nLine two", Translation: "Satır bir\nSatır iki", State: domain.Finished,
			Locations: []domain.Location{{Filename: "dialog.cpp", Line: 1}, {Filename: "dialog.cpp", Line: 99}}},
		{Source: `Say "hi" & 'bye'`, Translation: "", State: domain.Unfinished},
		{Source: "  padded  ", Translation: "日本語のテキスト 🌍", State: domain.Finished},
		{Source: "Save", State: domain.Unfinished},
		{Source: "Save", State: domain.Unfinished},
	}
	other := cat.Context("Äußere")
	other.Messages = []domain.Message{{Source: "Tab\there", Translation: "Sekme\tburada", State: domain.Finished}}

	codec := ts.New()
	out, err := codec.Serialize(cat, "tr_TR")
	require.NoError(t, err)

	back, err := codec.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "tr_TR", back.Language)
	assert.Equal(t, cat.Names(), back.Names())
	for _, name := range cat.Names() {
		assert.Equal(t, cat.Contexts[name].Messages, back.Contexts[name].Messages, name)
	}

	again, err := codec.Serialize(back, "tr_TR")
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestCreateFromTemplate(t *testing.T) {
	codec := ts.New()

	out, err := codec.CreateFromTemplate([]byte(sample), "de_DE")
	require.NoError(t, err)
	assert.Contains(t, string(out), `<TS version="2.1" language="de_DE">`)
	assert.Equal(t, strings.Replace(sample, `language="tr_TR"`, `language="de_DE"`, 1), string(out))

	bare := `<TS version="2.1"><context><name>A</name><message><source>x</source></message></context></TS>`
	out, err = codec.CreateFromTemplate([]byte(bare), "fr_FR")
	require.NoError(t, err)
	cat, err := codec.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "fr_FR", cat.Language)

	_, err = codec.CreateFromTemplate([]byte("<nope"), "fr_FR")
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestCreateFromTemplateTouchesOnlyRootLanguage(t *testing.T) {
	codec := ts.New()
	body := `<context>
    <name>Settings</name>
    <message>
        <source>set language="x" here</source>
        <translation>dil language="y"</translation>
    </message>
</context>
</TS>
`
	withBoth := "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE TS>\n" +
		`<TS version="2.1" language="tr_TR" sourcelanguage="en_US">` + "\n" + body
	out, err := codec.CreateFromTemplate([]byte(withBoth), "de_DE")
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(withBoth, `language="tr_TR"`, `language="de_DE"`, 1), string(out))

	cat, err := codec.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "de_DE", cat.Language)
	m := cat.Contexts["Settings"].Messages[0]
	assert.Equal(t, `set language="x" here`, m.Source)
	assert.Equal(t, `dil language="y"`, m.Translation)

	sourceOnly := `<TS version="2.1" sourcelanguage="en_US">` + "\n" + body
	out, err = codec.CreateFromTemplate([]byte(sourceOnly), "fr_FR")
	require.NoError(t, err)
	assert.Equal(t, `<TS language="fr_FR" version="2.1" sourcelanguage="en_US">`+"\n"+body, string(out))
	cat, err = codec.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "fr_FR", cat.Language)
}

const numerusDoc = `<TS version="2.1" language="de_DE">
<context>
    <name>Files</name>
    <message numerus="yes">
        <location filename="files.cpp" line="+7"/>
        <source>%n file(s)</source>
        <translation type="unfinished">
            <numerusform></numerusform>
            <numerusform></numerusform>
        </translation>
    </message>
    <message numerus="yes">
        <source>%n folder(s)</source>
        <translation>
            <numerusform>%n Ordner</numerusform>
            <numerusform>%n Ordner</numerusform>
        </translation>
    </message>
</context>
</TS>
`

func TestParseNumerusMessages(t *testing.T) {
	cat, err := ts.New().Parse([]byte(numerusDoc))
	require.NoError(t, err)
	msgs := cat.Contexts["Files"].Messages
	require.Len(t, msgs, 2)

	pending := msgs[0]
	assert.True(t, pending.Numerus)
	assert.Equal(t, "", pending.Translation)
	assert.Equal(t, []string{"", ""}, pending.Forms)
	assert.Equal(t, domain.Unfinished, pending.State)
	assert.False(t, pending.HasText())
	assert.Equal(t, []domain.Location{{Filename: "files.cpp", Line: 7, Relative: true}}, pending.Locations)

	done := msgs[1]
	assert.Equal(t, "", done.Translation)
	assert.Equal(t, []string{"%n Ordner", "%n Ordner"}, done.Forms)
	assert.Equal(t, domain.Finished, done.State)
}

func TestSerializeKeepsNumerusAndRelativeLines(t *testing.T) {
	codec := ts.New()
	cat, err := codec.Parse([]byte(numerusDoc))
	require.NoError(t, err)

	out, err := codec.Serialize(cat, "de_DE")
	require.NoError(t, err)
	doc := string(out)
	assert.Contains(t, doc, `<message numerus="yes">`)
	assert.Contains(t, doc, `line="+7"`)
	assert.Contains(t, doc, `<translation type="unfinished">`)
	assert.Equal(t, 4, strings.Count(doc, "<numerusform>"))
	assert.Contains(t, doc, "<numerusform>%n Ordner</numerusform>")

	back, err := codec.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, cat.Contexts["Files"].Messages, back.Contexts["Files"].Messages)
}

func TestParseDropsTextWithNestedMarkup(t *testing.T) {
	doc := `<TS><context><name>A</name><message><source>x</source>` +
		`<translation> <extra>y</extra> </translation></message></context></TS>`
	cat, err := ts.New().Parse([]byte(doc))
	require.NoError(t, err)
	m := cat.Contexts["A"].Messages[0]
	assert.Equal(t, "", m.Translation)
	assert.Equal(t, domain.Unfinished, m.State)
}
