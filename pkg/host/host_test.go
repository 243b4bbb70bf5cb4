package host

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/preemptive-obfuscator/obfview/pkg/errors"
)

type staticProvider struct {
	calls   int
	changes *Emitter[string]
	text    string
}

func newStaticProvider(text string) *staticProvider {
	return &staticProvider{changes: NewEmitter[string](), text: text}
}

func (p *staticProvider) ProvideTextDocumentContent(_ context.Context, uri string) (string, error) {
	p.calls++
	if strings.Contains(uri, "fail") {
		return "", fmt.Errorf("cannot provide %s", uri)
	}
	return p.text, nil
}

func (p *staticProvider) OnDidChange(listener func(string)) Disposable {
	return p.changes.Event(listener)
}

func TestFromDisposesAllOnceAndAggregates(t *testing.T) {
	var order []string
	a := NewDisposable(func() error { order = append(order, "a"); return fmt.Errorf("a failed") })
	b := DisposableFunc(func() error { order = append(order, "b"); return nil })
	c := NewDisposable(func() error { order = append(order, "c"); return fmt.Errorf("c failed") })

	joined := From(a, nil, b, c)
	err := joined.Dispose()
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !strings.Contains(err.Error(), "a failed") || !strings.Contains(err.Error(), "c failed") {
		t.Errorf("error %q should mention both failures", err)
	}

	joined.Dispose()
	if diff := cmp.Diff([]string{"a", "b", "c"}, order); diff != "" {
		t.Errorf("dispose order mismatch (-want +got):\n%s", diff)
	}
	if err := From().Dispose(); err != nil {
		t.Errorf("empty From() error = %v", err)
	}
	if err := Nop.Dispose(); err != nil {
		t.Errorf("Nop.Dispose() error = %v", err)
	}
}

func TestEmitter(t *testing.T) {
	e := NewEmitter[string]()
	var got []string
	sub1 := e.Event(func(v string) { got = append(got, "1:"+v) })
	e.Event(func(v string) { got = append(got, "2:"+v) })

	e.Fire("x")
	sub1.Dispose()
	e.Fire("y")

	if diff := cmp.Diff([]string{"1:x", "2:x", "2:y"}, got); diff != "" {
		t.Errorf("delivery mismatch (-want +got):\n%s", diff)
	}
	if e.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d", e.ListenerCount())
	}

	e.Dispose()
	e.Fire("z")
	late := e.Event(func(v string) { got = append(got, "late:"+v) })
	e.Fire("w")
	if len(got) != 3 {
		t.Errorf("events delivered after dispose: %v", got)
	}
	if err := late.Dispose(); err != nil {
		t.Errorf("inert disposable error = %v", err)
	}
	if !e.Disposed() {
		t.Error("Disposed() = false")
	}
}

func TestSchemeOf(t *testing.T) {
	tests := map[string]string{
		`javascript:Obfuscated.js?"/a.js"#0`: "javascript",
		"file:///a.js":                       "file",
		`C:\proj\foo.js`:                     "",
		"/a.js":                              "",
		"git+ssh://host":                     "git+ssh",
		"1abc:x":                             "",
	}
	for in, want := range tests {
		if got := SchemeOf(in); got != want {
			t.Errorf("SchemeOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWorkspaceOpenCloseFiresEvent(t *testing.T) {
	ws := NewWorkspace()
	var closed []string
	sub := ws.OnDidCloseTextDocument(func(doc *TextDocument) { closed = append(closed, doc.URI()) })

	doc := ws.OpenSource("/a.js", "", "one")
	if doc.FileName() != "/a.js" || doc.IsReadOnly() {
		t.Errorf("source doc = %q readOnly=%v", doc.FileName(), doc.IsReadOnly())
	}
	again := ws.OpenSource("/a.js", "", "two")
	if again != doc || doc.Text() != "two" {
		t.Error("reopening should update the same document")
	}

	if err := ws.SetActive("/a.js"); err != nil {
		t.Fatal(err)
	}
	if !ws.CloseDocument("/a.js") {
		t.Fatal("CloseDocument() = false")
	}
	if ws.CloseDocument("/a.js") {
		t.Error("second CloseDocument() = true")
	}
	if _, ok := ws.ActiveDocument(); ok {
		t.Error("closed document still active")
	}

	sub.Dispose()
	ws.OpenSource("/b.js", "", "")
	ws.CloseDocument("/b.js")
	if diff := cmp.Diff([]string{"/a.js"}, closed); diff != "" {
		t.Errorf("close events mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenSourceOverVirtualDocumentClosesIt(t *testing.T) {
	ws := NewWorkspace()
	if _, err := ws.RegisterTextDocumentContentProvider("virt", newStaticProvider("virtual")); err != nil {
		t.Fatal(err)
	}
	virtual, err := ws.OpenTextDocument(context.Background(), "virt:x")
	if err != nil {
		t.Fatalf("OpenTextDocument() error = %v", err)
	}

	var closed []*TextDocument
	ws.OnDidCloseTextDocument(func(doc *TextDocument) { closed = append(closed, doc) })

	doc := ws.OpenSource("virt:x", "", "source")
	if doc == virtual || doc.IsReadOnly() {
		t.Fatal("virtual document was not replaced by a writable source")
	}
	if len(closed) != 1 || closed[0] != virtual {
		t.Errorf("close events = %v, want the virtual document once", closed)
	}
	if got, _ := ws.Document("virt:x"); got != doc {
		t.Error("workspace does not hold the new source document")
	}
}

func TestWorkspaceOpenTextDocumentThroughProvider(t *testing.T) {
	ws := NewWorkspace()
	p := newStaticProvider("virtual")
	reg, err := ws.RegisterTextDocumentContentProvider("virt", p)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ws.RegisterTextDocumentContentProvider("virt", p); !errors.IsType(err, errors.ErrValidation) {
		t.Errorf("duplicate registration error = %v", err)
	}

	doc, err := ws.OpenTextDocument(context.Background(), "virt:one")
	if err != nil {
		t.Fatalf("OpenTextDocument() error = %v", err)
	}
	if doc.Text() != "virtual" || !doc.IsReadOnly() {
		t.Errorf("doc text=%q readOnly=%v", doc.Text(), doc.IsReadOnly())
	}
	if again, _ := ws.OpenTextDocument(context.Background(), "virt:one"); again != doc || p.calls != 1 {
		t.Errorf("reopen should reuse the document, provider calls = %d", p.calls)
	}

	if _, err := ws.OpenTextDocument(context.Background(), "virt:fail"); err == nil {
		t.Error("provider error should propagate")
	}
	if _, ok := ws.Document("virt:fail"); ok {
		t.Error("failed virtual document should not be open")
	}

	p.text = "changed"
	p.changes.Fire("virt:one")
	if doc.Text() != "changed" {
		t.Errorf("change notification did not refresh content: %q", doc.Text())
	}

	if err := reg.Dispose(); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.OpenTextDocument(context.Background(), "virt:two"); !errors.IsType(err, errors.ErrNoSourceDocument) {
		t.Errorf("after unregister error = %v", err)
	}
	if p.changes.ListenerCount() != 0 {
		t.Error("change subscription survived unregister")
	}
}

func TestWorkspaceRegisterValidation(t *testing.T) {
	ws := NewWorkspace()
	if _, err := ws.RegisterTextDocumentContentProvider("", newStaticProvider("")); err == nil {
		t.Error("empty scheme accepted")
	}
	if _, err := ws.RegisterTextDocumentContentProvider("x", nil); err == nil {
		t.Error("nil provider accepted")
	}
	if err := ws.SetActive("/nope.js"); !errors.IsType(err, errors.ErrNoSourceDocument) {
		t.Errorf("SetActive(unknown) error = %v", err)
	}
}

func TestWindowPanes(t *testing.T) {
	h := New()
	defer h.Dispose()

	h.Focus("/a.js", "", "a")
	v := h.Workspace.OpenSource("virt:1", "", "v")
	h.Window.ShowTextDocument(v, 2)
	h.Window.ShowTextDocument(v, 0)

	panes := h.Window.Panes()
	if len(panes) != 2 {
		t.Fatalf("Panes() = %d, want 2", len(panes))
	}
	if panes[0].Document != v || panes[0].ViewColumn != 1 {
		t.Errorf("column 0 should clamp to 1 and replace the pane: %+v", panes[0])
	}

	h.Workspace.CloseDocument("virt:1")
	if len(h.Window.Panes()) != 0 {
		t.Errorf("panes of closed document remain: %+v", h.Window.Panes())
	}
}

func TestCommands(t *testing.T) {
	h := New()
	defer h.Dispose()

	var seen Editor
	reg, err := h.Commands.RegisterTextEditorCommand("demo.run", func(_ context.Context, e Editor) error {
		seen = e
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Commands.RegisterTextEditorCommand("demo.run", func(context.Context, Editor) error { return nil }); err == nil {
		t.Error("duplicate command accepted")
	}

	if err := h.Commands.ExecuteCommand(context.Background(), "demo.run"); !errors.IsType(err, errors.ErrNoSourceDocument) {
		t.Errorf("without editor error = %v", err)
	}

	doc := h.Focus("/a.js", "", "a")
	if err := h.Commands.ExecuteCommand(context.Background(), "demo.run"); err != nil {
		t.Fatalf("ExecuteCommand() error = %v", err)
	}
	if seen.Document != doc || seen.ViewColumn != 1 {
		t.Errorf("editor = %+v", seen)
	}
	if diff := cmp.Diff([]string{"demo.run"}, h.Commands.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	reg.Dispose()
	if err := h.Commands.ExecuteCommand(context.Background(), "demo.run"); !errors.IsType(err, errors.ErrValidation) {
		t.Errorf("unregistered command error = %v", err)
	}
}
