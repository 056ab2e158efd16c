package translator_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsgpt/internal/domain"
	"tsgpt/internal/usecase/translator"
)

type call struct {
	Phrases []string
	Lang    string
	Code    string
	Context string
}

// stubTranslator answers from a fixed dictionary and records every call.
type stubTranslator struct {
	dict  map[string]string
	fail  map[int]error // call index -> error
	calls []call
}

func (s *stubTranslator) TranslateBatch(_ context.Context, phrases []string, lang, code, hint string) (map[string]string, error) {
	s.calls = append(s.calls, call{Phrases: append([]string(nil), phrases...), Lang: lang, Code: code, Context: hint})
	if err := s.fail[len(s.calls)-1]; err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, p := range phrases {
		if tr, ok := s.dict[p]; ok {
			out[p] = tr
		}
	}
	return out, nil
}

func msg(source, translation string, locs ...domain.Location) domain.Message {
	return domain.Message{Source: source, Translation: translation, State: domain.StateOf(translation), Locations: locs}
}

func TestScenarioSingleMessage(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("MainWindow").Messages = []domain.Message{msg("Save", "", domain.Location{Filename: "main.cpp", Line: 10})}
	stub := &stubTranslator{dict: map[string]string{"Save": "Guardar"}}

	rep := translator.New(translator.Deps{Translator: stub}).Run(context.Background(), cat, translator.RunArgs{BatchSize: 1, TargetLang: "Spanish", TargetCode: "es_ES"})

	m := cat.Contexts["MainWindow"].Messages[0]
	assert.Equal(t, "Guardar", m.Translation)
	assert.Equal(t, domain.Finished, m.State)
	assert.Equal(t, []domain.Location{{Filename: "main.cpp", Line: 10}}, m.Locations)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, call{Phrases: []string{"Save"}, Lang: "Spanish", Code: "es_ES", Context: "MainWindow"}, stub.calls[0])
	assert.Equal(t, 1, rep.Translated)
	assert.Empty(t, rep.Warnings)
}

func TestCrossContextSameSource(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("A").Messages = []domain.Message{msg("OK", "")}
	cat.Context("B").Messages = []domain.Message{msg("OK", "")}
	stub := &stubTranslator{dict: map[string]string{"OK": "D'accord"}}

	translator.New(translator.Deps{Translator: stub}).Run(context.Background(), cat, translator.RunArgs{BatchSize: 50})

	assert.Equal(t, "D'accord", cat.Contexts["A"].Messages[0].Translation)
	assert.Equal(t, "D'accord", cat.Contexts["B"].Messages[0].Translation)
	require.Len(t, stub.calls, 2)
	assert.Equal(t, "A", stub.calls[0].Context)
	assert.Equal(t, "B", stub.calls[1].Context)
}

func TestIdempotentOnFinishedCatalog(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("A").Messages = []domain.Message{msg("Save", "Guardar"), msg("Open", "Abrir")}
	before := cat.Clone()
	stub := &stubTranslator{dict: map[string]string{"Save": "X"}}

	rep := translator.New(translator.Deps{Translator: stub}).Run(context.Background(), cat, translator.RunArgs{BatchSize: 1})

	assert.Empty(t, stub.calls)
	assert.Equal(t, before, cat)
	assert.Zero(t, rep.Batches)
}

func TestBatchCoverage(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("A").Messages = []domain.Message{
		msg("one", ""), msg("two", ""), msg("one", ""), msg("three", "drei"), msg("four", ""), msg("two", ""), msg("five", ""),
	}
	cat.Context("B").Messages = []domain.Message{msg("one", ""), msg("", "")}
	// translator knows nothing, so no fan-out can hide a resend
	stub := &stubTranslator{dict: map[string]string{}}

	rep := translator.New(translator.Deps{Translator: stub}).Run(context.Background(), cat, translator.RunArgs{BatchSize: 2})

	perContext := map[string][]string{}
	for _, c := range stub.calls {
		assert.LessOrEqual(t, len(c.Phrases), 2)
		perContext[c.Context] = append(perContext[c.Context], c.Phrases...)
	}
	a := perContext["A"]
	sort.Strings(a)
	assert.Equal(t, []string{"five", "four", "one", "two"}, a)
	assert.Equal(t, []string{"one"}, perContext["B"])
	assert.Equal(t, 5, rep.Sent)
	assert.Equal(t, 3, rep.Batches)
}

func TestMergeFanOutAndLeavesOthers(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("A").Messages = []domain.Message{
		msg("Save", ""), msg("Cancel", ""), msg("Save", ""), msg("Save as", ""), msg("Quit", "Salir"),
	}
	stub := &stubTranslator{dict: map[string]string{"Save": "Guardar", "Quit": "Cerrar"}}

	rep := translator.New(translator.Deps{Translator: stub}).Run(context.Background(), cat, translator.RunArgs{BatchSize: 10})

	got := cat.Contexts["A"].Messages
	assert.Equal(t, msg("Save", "Guardar"), got[0])
	assert.Equal(t, msg("Cancel", ""), got[1])
	assert.Equal(t, msg("Save", "Guardar"), got[2])
	assert.Equal(t, msg("Save as", ""), got[3])
	assert.Equal(t, msg("Quit", "Salir"), got[4])
	assert.Equal(t, 2, rep.Translated)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, []string{"Save", "Cancel", "Save as"}, stub.calls[0].Phrases)
}

func TestEmptyAnswerCountsAsMissing(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("A").Messages = []domain.Message{msg("Save", "")}
	stub := &stubTranslator{dict: map[string]string{"Save": ""}}

	translator.New(translator.Deps{Translator: stub}).Run(context.Background(), cat, translator.RunArgs{})

	assert.Equal(t, msg("Save", ""), cat.Contexts["A"].Messages[0])
}

func TestFailedBatchIsSkipped(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("A").Messages = []domain.Message{msg("one", ""), msg("two", ""), msg("three", "")}
	stub := &stubTranslator{
		dict: map[string]string{"one": "uno", "two": "dos", "three": "tres"},
		fail: map[int]error{0: domain.WrapTransport(errors.New("connection refused"))},
	}

	rep := translator.New(translator.Deps{Translator: stub}).Run(context.Background(), cat, translator.RunArgs{BatchSize: 2})

	got := cat.Contexts["A"].Messages
	assert.Equal(t, "", got[0].Translation)
	assert.Equal(t, "", got[1].Translation)
	assert.Equal(t, "tres", got[2].Translation)
	assert.Len(t, stub.calls, 2)
	assert.Equal(t, 1, rep.FailedBatches)
	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "translator unreachable")
}

func TestPlaceholderLossIsWarned(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("A").Messages = []domain.Message{msg("Page %1 of %2", "")}
	stub := &stubTranslator{dict: map[string]string{"Page %1 of %2": "Seite %1"}}

	rep := translator.New(translator.Deps{Translator: stub}).Run(context.Background(), cat, translator.RunArgs{})

	assert.Equal(t, "Seite %1", cat.Contexts["A"].Messages[0].Translation)
	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "%2")
}

type recorder struct{ names []string }

func (r *recorder) Emit(name string, _ any) { r.names = append(r.names, name) }

func TestRunEmitsProgress(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("A").Messages = []domain.Message{msg("one", ""), msg("two", "")}
	rec := &recorder{}

	translator.New(translator.Deps{Translator: &stubTranslator{}, Emitter: rec}).Run(context.Background(), cat, translator.RunArgs{BatchSize: 1})

	assert.Equal(t, []string{"run.start", "batch.start", "batch.done", "batch.start", "batch.done"}, rec.names)
}

func TestPlan(t *testing.T) {
	cat := domain.NewCatalog()
	cat.Context("b").Messages = []domain.Message{msg("x", ""), msg("y", ""), msg("z", "")}
	cat.Context("a").Messages = []domain.Message{msg("x", "")}

	got := translator.Plan(cat, 2)
	assert.Equal(t, []translator.Batch{
		{Context: "a", Phrases: []string{"x"}},
		{Context: "b", Phrases: []string{"x", "y"}},
		{Context: "b", Phrases: []string{"z"}},
	}, got)
}

func TestPluralMessagesAreNotTranslated(t *testing.T) {
	cat := domain.NewCatalog()
	plural := domain.Message{Source: "%n file(s)", Numerus: true, Forms: []string{"", ""}}
	cat.Context("Files").Messages = []domain.Message{plural, msg("Open", "")}

	assert.Equal(t, []translator.Batch{{Context: "Files", Phrases: []string{"Open"}}}, translator.Plan(cat, 10))

	tr := &stubTranslator{dict: map[string]string{"Open": "Öffnen", "%n file(s)": "%n Datei(en)"}}
	rep := translator.New(translator.Deps{Translator: tr}).Run(context.Background(), cat, translator.RunArgs{BatchSize: 10})
	assert.Equal(t, 1, rep.Translated)

	got := cat.Contexts["Files"].Messages[0]
	assert.Equal(t, "", got.Translation)
	assert.Equal(t, []string{"", ""}, got.Forms)
	assert.Equal(t, "Öffnen", cat.Contexts["Files"].Messages[1].Translation)
}
