package render

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/webring/internal/dom"
	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/widget"
)

func okState(entries map[string][]widget.DisplayLink, order ...string) widget.RenderState {
	m := widget.NewCategoryDisplayMap()
	for _, c := range order {
		m.Set(c, entries[c])
	}
	return widget.OkState(m)
}

func TestRenderError(t *testing.T) {
	out, err := New(logger.Nop()).Render(widget.ErrorState())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		`<div id="saturn91-webring-widget">`,
		"Saturn91&#39;s Webring",
		"Something went wrong",
		`href="https://saturn91.github.io/saturn91-webring-widget/"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("error markup missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "webring-grid") {
		t.Error("error markup should not contain a grid")
	}
}

func TestRenderColumnsSkipEmptyCategories(t *testing.T) {
	state := okState(map[string][]widget.DisplayLink{
		"indie-games": {{Title: "Ada", URL: "https://ada.example"}},
		"art":         nil,
		"music":       {{Title: "Bo", URL: "https://bo.example"}, {Title: "Cy", URL: "https://cy.example"}},
	}, "indie-games", "art", "music")

	out, err := New(logger.Nop()).Render(state)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Count(out, `class="webring-column"`) != 2 {
		t.Errorf("want 2 columns:\n%s", out)
	}
	if strings.Contains(out, ">Art<") {
		t.Error("empty category should not render a column")
	}
	if !strings.Contains(out, `<h4 class="category-title">Indie Games</h4>`) {
		t.Errorf("humanized title missing:\n%s", out)
	}
	if strings.Index(out, "Indie Games") > strings.Index(out, "Music") {
		t.Error("columns should follow category order")
	}
	if strings.Count(out, `class="webring-link"`) != 3 {
		t.Errorf("want 3 links:\n%s", out)
	}
	if !strings.Contains(out, `target="_blank" rel="noopener noreferrer"`) {
		t.Error("links should open isolated in a new tab")
	}
	if strings.Contains(out, "Something went wrong") {
		t.Error("ok state should not show the error text")
	}
}

func TestRenderAllEmptyFallsBackToError(t *testing.T) {
	state := okState(map[string][]widget.DisplayLink{"art": nil}, "art")

	out, err := New(logger.Nop()).Render(state)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Something went wrong") {
		t.Errorf("want error markup:\n%s", out)
	}
}

func TestRenderEscapesLinkData(t *testing.T) {
	state := okState(map[string][]widget.DisplayLink{
		"art": {
			{Title: `<script>alert(1)</script>`, URL: `javascript:alert(1)`},
			{Title: `Tom & "Jerry"`, URL: `https://x.example/?a=1&b="2"`},
		},
	}, "art")

	out, err := New(logger.Nop()).Render(state)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(out, "<script>") {
		t.Errorf("title was not escaped:\n%s", out)
	}
	if strings.Contains(out, `href="javascript:`) {
		t.Errorf("unsafe URL scheme kept:\n%s", out)
	}
	if !strings.Contains(out, "Tom &amp; &#34;Jerry&#34;") {
		t.Errorf("ampersand/quotes not escaped:\n%s", out)
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"art":           "Art",
		"indie-games":   "Indie Games",
		"web-dev-tools": "Web Dev Tools",
		"already Upper": "Already Upper",
		"ünicode-fun":   "Ünicode Fun",
		"double--dash":  "Double  Dash",
		"":              "",
	}
	for in, want := range tests {
		if got := Humanize(in); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStyles(t *testing.T) {
	r := New(logger.Nop())

	css, err := r.Styles("#123456", "#fefefe", "2px solid red")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"--widget-color: #123456;",
		"--widget-bg-color: #fefefe;",
		"border: 2px solid red;",
		"#saturn91-webring-widget {",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("styles missing %q", want)
		}
	}

	css, err = r.Styles("#000", "#fff", "")
	if err != nil {
		t.Fatal(err)
	}
	widgetRule := css[:strings.Index(css, ".webring-header")]
	if strings.Contains(widgetRule, "border:") {
		t.Errorf("empty border should not produce a border declaration:\n%s", widgetRule)
	}
}

func TestStylesSanitizesValues(t *testing.T) {
	css, err := New(logger.Nop()).Styles("red;}</style><script>x()</script>", "#fff", "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(css, "</style") || strings.Contains(css, "red;}") {
		t.Errorf("color escaped its declaration:\n%s", css)
	}
}

func TestApplyStylesIsIdempotent(t *testing.T) {
	doc := dom.NewBlankPage()
	r := New(logger.Nop())

	inserted, err := r.ApplyStyles(doc, "#111", "#eee", "")
	if err != nil || !inserted {
		t.Fatalf("first ApplyStyles() = (%v, %v)", inserted, err)
	}
	inserted, err = r.ApplyStyles(doc, "#999", "#000", "1px solid blue")
	if err != nil || inserted {
		t.Fatalf("second ApplyStyles() = (%v, %v), want no-op", inserted, err)
	}

	if n := doc.CountByID(StyleID); n != 1 {
		t.Errorf("style blocks = %d, want 1", n)
	}
	css, _ := doc.OuterHTML(StyleID)
	if !strings.Contains(css, "#111") || strings.Contains(css, "#999") {
		t.Error("second call must not change the existing styles")
	}
}

func TestMountPrefersContainer(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><section id="saturn91-webring"></section></body></html>`)
	if err != nil {
		t.Fatal(err)
	}

	target, err := New(logger.Nop()).Mount(doc, `<div id="saturn91-webring-widget">w</div>`)
	if err != nil {
		t.Fatal(err)
	}
	if target != TargetContainer {
		t.Errorf("target = %v, want container", target)
	}
	out, _ := doc.OuterHTML(ContainerID)
	if !strings.Contains(out, WidgetID) {
		t.Errorf("widget not inside container: %s", out)
	}
}

func TestMountFallsBackToBody(t *testing.T) {
	doc := dom.NewBlankPage()

	target, err := New(logger.Nop()).Mount(doc, `<div id="saturn91-webring-widget">w</div>`)
	if err != nil {
		t.Fatal(err)
	}
	if target != TargetBody {
		t.Errorf("target = %v, want body", target)
	}
	if !strings.Contains(doc.String(), `<body><div id="saturn91-webring-widget">w</div></body>`) {
		t.Errorf("page = %s", doc.String())
	}
}

func TestMountUsesFirstOfDuplicateContainers(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><div id="saturn91-webring">one</div><div id="saturn91-webring">two</div></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	core, logs := observer.New(zapcore.WarnLevel)

	target, err := New(logger.Wrap(zap.New(core))).Mount(doc, `<div id="saturn91-webring-widget">w</div>`)
	if err != nil {
		t.Fatal(err)
	}
	if target != TargetContainer {
		t.Errorf("target = %v, want container", target)
	}
	if !strings.Contains(doc.String(), `one<div id="saturn91-webring-widget">w</div></div><div id="saturn91-webring">two</div>`) {
		t.Errorf("widget should land in the first container only:\n%s", doc.String())
	}
	if logs.FilterMessageSnippet("several webring containers").Len() != 1 {
		t.Error("duplicate containers should be logged")
	}
}
