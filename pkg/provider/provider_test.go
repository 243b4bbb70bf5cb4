package provider

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/preemptive-obfuscator/obfview/pkg/errors"
	"github.com/preemptive-obfuscator/obfview/pkg/host"
	"github.com/preemptive-obfuscator/obfview/pkg/location"
	"github.com/preemptive-obfuscator/obfview/pkg/observability"
	"github.com/preemptive-obfuscator/obfview/pkg/obfuscate"
)

func stubTransformer() *obfuscate.Counting {
	return obfuscate.NewCounting(obfuscate.TransformerFunc(
		func(_ context.Context, src string, _ obfuscate.Options) (string, error) {
			return "/*obf*/" + src, nil
		}))
}

func newTestProvider(t *testing.T) (*host.Workspace, *Provider, *obfuscate.Counting) {
	t.Helper()
	ws := host.NewWorkspace()
	tr := stubTransformer()
	p := New(ws, tr)
	t.Cleanup(func() { _ = p.Dispose() })
	return ws, p, tr
}

func TestProvideContentIsMemoized(t *testing.T) {
	ws, p, tr := newTestProvider(t)
	ws.OpenSource("/a.js", "", "console.log(1)")
	id := location.Encode("/a.js")

	first, err := p.ProvideContent(context.Background(), id)
	if err != nil {
		t.Fatalf("ProvideContent() error = %v", err)
	}
	second, err := p.ProvideContent(context.Background(), id)
	if err != nil {
		t.Fatalf("ProvideContent() error = %v", err)
	}

	if first != second {
		t.Errorf("second call returned %q, want %q", second, first)
	}
	if tr.Calls() != 1 {
		t.Errorf("transform called %d times, want 1", tr.Calls())
	}
	if stats := p.Stats(); stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestProvideContentProvenanceLine(t *testing.T) {
	ws, p, _ := newTestProvider(t)
	ws.OpenSource(`C:\proj\foo.js`, "", "let x=1;")

	text, err := p.ProvideContent(context.Background(), location.Encode(`C:\proj\foo.js`))
	if err != nil {
		t.Fatalf("ProvideContent() error = %v", err)
	}

	header, body, ok := strings.Cut(text, "\n")
	if !ok {
		t.Fatalf("no line break in %q", text)
	}
	if !strings.HasPrefix(header, "//") || !strings.Contains(header, "foo.js") {
		t.Errorf("first line = %q, want a comment naming foo.js", header)
	}
	if strings.Contains(header, "proj") {
		t.Errorf("first line = %q should not carry the directory", header)
	}
	if strings.TrimLeft(body, "\n") != "/*obf*/let x=1;" {
		t.Errorf("body = %q, want transform output", body)
	}
}

func TestProvideContentNonUTF8SourceKey(t *testing.T) {
	ws, p, _ := newTestProvider(t)
	src := "/tmp/caf\xe9.js"
	ws.OpenSource(src, src, "let x=1;")

	text, err := p.ProvideContent(context.Background(), location.Encode(src))
	if err != nil {
		t.Fatalf("ProvideContent() error = %v", err)
	}
	if !strings.HasSuffix(text, "/*obf*/let x=1;") {
		t.Errorf("content = %q, want transform output", text)
	}
}

func TestProvideContentUsesEmbeddedSource(t *testing.T) {
	ws, p, _ := newTestProvider(t)
	ws.OpenSource("/a.js", "", "var a;")
	ws.OpenSource("/b.js", "", "var b;")
	if err := ws.SetActive("/b.js"); err != nil {
		t.Fatal(err)
	}

	text, err := p.ProvideContent(context.Background(), location.Encode("/a.js"))
	if err != nil {
		t.Fatalf("ProvideContent() error = %v", err)
	}
	if !strings.HasSuffix(text, "var a;") {
		t.Errorf("content %q was not computed from /a.js", text)
	}
}

func TestProvideContentNoSourceDocument(t *testing.T) {
	_, p, tr := newTestProvider(t)
	id := location.Encode("/missing.js")

	_, err := p.ProvideContent(context.Background(), id)
	if !errors.IsType(err, errors.ErrNoSourceDocument) {
		t.Fatalf("error = %v, want NoSourceDocument", err)
	}
	if p.Has(id) {
		t.Error("failed request should not be cached")
	}
	if tr.Calls() != 0 {
		t.Errorf("transform called %d times", tr.Calls())
	}
}

func TestProvideContentMalformedIdentifier(t *testing.T) {
	_, p, _ := newTestProvider(t)

	_, err := p.ProvideContent(context.Background(), "file:///a.js")
	if !errors.IsType(err, errors.ErrValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if p.Len() != 0 {
		t.Error("nothing should be cached")
	}
}

func TestProvideContentTransformFailure(t *testing.T) {
	ws := host.NewWorkspace()
	fail := true
	tr := obfuscate.NewCounting(obfuscate.TransformerFunc(
		func(_ context.Context, src string, _ obfuscate.Options) (string, error) {
			if fail {
				return "", fmt.Errorf("Line 1: Unexpected token")
			}
			return src, nil
		}))
	var logs bytes.Buffer
	p := New(ws, tr, WithLogger(observability.NewLoggerTo(&logs, "debug")))
	defer p.Dispose()

	ws.OpenSource("/bad.js", "", "let = ;")
	id := location.Encode("/bad.js")

	_, err := p.ProvideContent(context.Background(), id)
	if !errors.IsType(err, errors.ErrTransform) {
		t.Fatalf("error = %v, want TransformFailure", err)
	}
	if !strings.Contains(err.Error(), "Unexpected token") {
		t.Errorf("error %q should carry the cause", err)
	}
	if p.Has(id) {
		t.Error("failed transform should not be cached")
	}
	if !strings.Contains(logs.String(), "obfuscation failed") {
		t.Errorf("failure not logged: %q", logs.String())
	}

	fail = false
	if _, err := p.ProvideContent(context.Background(), id); err != nil {
		t.Fatalf("retry error = %v", err)
	}
	if tr.Calls() != 2 {
		t.Errorf("transform called %d times, want 2", tr.Calls())
	}
}

func TestSourceCloseInvalidatesAndRecomputes(t *testing.T) {
	ws, p, tr := newTestProvider(t)
	ws.OpenSource("/a.js", "", "console.log(1)")
	ws.OpenSource("/b.js", "", "console.log(2)")

	idA1 := location.Encode("/a.js")
	idA2 := location.Encode("/a.js")
	idB := location.Encode("/b.js")
	for _, id := range []string{idA1, idA2, idB} {
		if _, err := p.ProvideContent(context.Background(), id); err != nil {
			t.Fatalf("ProvideContent(%q) error = %v", id, err)
		}
	}

	if !ws.CloseDocument("/a.js") {
		t.Fatal("CloseDocument reported /a.js as not open")
	}
	if p.Has(idA1) || p.Has(idA2) {
		t.Error("entries derived from /a.js survived the close")
	}
	if !p.Has(idB) {
		t.Error("entry for /b.js should survive")
	}

	// reopened source: the same identifier is computed again
	ws.OpenSource("/a.js", "", "console.log(3)")
	text, err := p.ProvideContent(context.Background(), idA1)
	if err != nil {
		t.Fatalf("ProvideContent() error = %v", err)
	}
	if !strings.HasSuffix(text, "console.log(3)") {
		t.Errorf("stale content returned: %q", text)
	}
	if tr.Calls() != 4 {
		t.Errorf("transform called %d times, want 4", tr.Calls())
	}
}

func TestVirtualCloseEvictsOnlyThatEntry(t *testing.T) {
	ws, p, _ := newTestProvider(t)
	ws.OpenSource("/a.js", "", "x")

	if _, err := ws.RegisterTextDocumentContentProvider(location.Scheme, p); err != nil {
		t.Fatal(err)
	}
	id1 := location.Encode("/a.js")
	id2 := location.Encode("/a.js")
	if _, err := ws.OpenTextDocument(context.Background(), id1); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.OpenTextDocument(context.Background(), id2); err != nil {
		t.Fatal(err)
	}

	ws.CloseDocument(id1)

	if p.Has(id1) {
		t.Error("closed virtual document still cached")
	}
	if !p.Has(id2) {
		t.Error("other virtual document should stay cached")
	}
}

func TestOpenSourceOverVirtualDocumentEvictsEntry(t *testing.T) {
	ws, p, _ := newTestProvider(t)
	if _, err := ws.RegisterTextDocumentContentProvider(location.Scheme, p); err != nil {
		t.Fatal(err)
	}
	ws.OpenSource("/a.js", "", "x")
	id := location.Encode("/a.js")
	if _, err := ws.OpenTextDocument(context.Background(), id); err != nil {
		t.Fatalf("OpenTextDocument() error = %v", err)
	}
	if !p.Has(id) {
		t.Fatal("entry not cached")
	}

	ws.OpenSource(id, "", "edited")
	if p.Has(id) {
		t.Error("entry survived its virtual document being replaced")
	}
}

func TestSourceClosedReturnsRemovedCount(t *testing.T) {
	ws, p, _ := newTestProvider(t)
	ws.OpenSource("/a.js", "", "x")
	id := location.Encode("/a.js")
	if _, err := p.ProvideContent(context.Background(), id); err != nil {
		t.Fatal(err)
	}

	if n := p.SourceClosed("/other.js"); n != 0 {
		t.Errorf("SourceClosed(unrelated) = %d", n)
	}
	if n := p.SourceClosed(id); n != 1 {
		t.Errorf("SourceClosed(id) = %d, want 1", n)
	}
}

func TestOnDidChangeNeverFires(t *testing.T) {
	ws, p, _ := newTestProvider(t)
	ws.OpenSource("/a.js", "", "x")

	fired := 0
	sub := p.OnDidChange(func(string) { fired++ })
	defer sub.Dispose()

	id := location.Encode("/a.js")
	if _, err := p.ProvideContent(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	ws.CloseDocument("/a.js")

	if fired != 0 {
		t.Errorf("change stream fired %d times", fired)
	}
}

func TestDisposeSafety(t *testing.T) {
	ws := host.NewWorkspace()
	tr := stubTransformer()
	p := New(ws, tr)

	ws.OpenSource("/a.js", "", "x")
	ws.OpenSource("/b.js", "", "y")
	idA := location.Encode("/a.js")
	if _, err := p.ProvideContent(context.Background(), idA); err != nil {
		t.Fatal(err)
	}

	fired := 0
	p.OnDidChange(func(string) { fired++ })

	if err := p.Dispose(); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("cache holds %d entries after Dispose", p.Len())
	}

	// close events after dispose must not reach the provider
	ws.CloseDocument("/b.js")
	if n := p.SourceClosed("/a.js"); n != 0 {
		t.Errorf("SourceClosed after dispose removed %d", n)
	}
	if p.Len() != 0 {
		t.Error("state changed after dispose")
	}
	if sub := p.OnDidChange(func(string) { fired++ }); sub == nil {
		t.Error("OnDidChange should return an inert disposable")
	}

	if _, err := p.ProvideContent(context.Background(), idA); !errors.IsType(err, errors.ErrDisposed) {
		t.Errorf("ProvideContent after dispose error = %v", err)
	}
	if err := p.Dispose(); err != nil {
		t.Errorf("second Dispose() error = %v", err)
	}
	if fired != 0 {
		t.Errorf("listeners fired %d times", fired)
	}
}

func TestProvenanceFileName(t *testing.T) {
	tests := map[string]string{
		`C:\proj\foo.js`:  "foo.js",
		"/a.js":           "a.js",
		"src/lib/util.js": "util.js",
		`mixed\dir/x.js`:  "x.js",
		"plain.js":        "plain.js",
	}
	for in, want := range tests {
		if got := ProvenanceFileName(in); got != want {
			t.Errorf("ProvenanceFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObfuscatedDocumentComputesOnce(t *testing.T) {
	ws := host.NewWorkspace()
	src := ws.OpenSource("/a.js", "", "x")
	tr := stubTransformer()
	doc := NewObfuscatedDocument("id", src, tr, obfuscate.DefaultOptions())

	if doc.Computed() {
		t.Fatal("document computed before first use")
	}
	for i := 0; i < 3; i++ {
		if _, err := doc.Text(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if !doc.Computed() || tr.Calls() != 1 {
		t.Errorf("computed=%v calls=%d", doc.Computed(), tr.Calls())
	}
	if doc.ID() != "id" || doc.Source() != "/a.js" {
		t.Errorf("ID()=%q Source()=%q", doc.ID(), doc.Source())
	}
}
