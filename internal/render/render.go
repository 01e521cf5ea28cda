package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode"
	"unicode/utf8"

	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/widget"
)

// Fixed element ids shared with host pages.
const (
	ContainerID = "saturn91-webring"
	WidgetID    = "saturn91-webring-widget"
	StyleID     = "saturn91-webring-styles"
)

const (
	Heading = "Saturn91's Webring"
	JoinURL = "https://saturn91.github.io/saturn91-webring-widget/"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	markupTmpl = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/widget.html.tmpl"))
	styleTmpl  = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/widget.css.tmpl"))
)

// Document is the part of a page the renderer writes to.
type Document interface {
	ElementExists(id string) bool
	CountByID(id string) int
	AppendToElement(id, markup string) error
	AppendToBody(markup string) error
	AppendStyle(id, css string) error
}

// Target tells where the widget was mounted.
type Target string

const (
	TargetContainer Target = "container"
	TargetBody      Target = "body"
)

type view struct {
	WidgetID string
	Heading  string
	JoinURL  string
	Failed   bool
	Columns  []column
}

type column struct {
	Title string
	Links []widget.DisplayLink
}

type styleView struct {
	WidgetID        string
	Color           string
	BackgroundColor string
	Border          string
}

// Renderer turns render states into markup and mounts it.
type Renderer struct {
	logger logger.Logger
}

func New(log logger.Logger) *Renderer {
	return &Renderer{logger: log}
}

// Render returns the widget element for state. Categories without links are
// skipped; if none is left the error markup is produced.
func (r *Renderer) Render(state widget.RenderState) (string, error) {
	v := buildView(state)

	var buf bytes.Buffer
	if err := markupTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("failed to render widget: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func buildView(state widget.RenderState) view {
	v := view{
		WidgetID: WidgetID,
		Heading:  Heading,
		JoinURL:  JoinURL,
		Failed:   state.Failed,
	}
	if v.Failed {
		return v
	}

	for _, category := range state.Categories.Categories() {
		links, _ := state.Categories.Get(category)
		if len(links) == 0 {
			continue
		}
		v.Columns = append(v.Columns, column{
			Title: Humanize(category),
			Links: links,
		})
	}
	if len(v.Columns) == 0 {
		v.Failed = true
	}
	return v
}

// Styles returns the widget stylesheet for the given colors and border.
func (r *Renderer) Styles(color, backgroundColor, border string) (string, error) {
	var buf bytes.Buffer
	err := styleTmpl.Execute(&buf, styleView{
		WidgetID:        WidgetID,
		Color:           sanitizeCSSValue(color),
		BackgroundColor: sanitizeCSSValue(backgroundColor),
		Border:          sanitizeCSSValue(border),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render styles: %w", err)
	}
	return buf.String(), nil
}

// ApplyStyles inserts the stylesheet once per document. It returns false
// without touching doc when the style block is already there, whatever the
// arguments.
func (r *Renderer) ApplyStyles(doc Document, color, backgroundColor, border string) (bool, error) {
	if doc.ElementExists(StyleID) {
		return false, nil
	}
	css, err := r.Styles(color, backgroundColor, border)
	if err != nil {
		return false, err
	}
	if err := doc.AppendStyle(StyleID, css); err != nil {
		return false, fmt.Errorf("failed to insert styles: %w", err)
	}
	return true, nil
}

// Mount appends markup to the #saturn91-webring container, or to the body
// when the page has none.
func (r *Renderer) Mount(doc Document, markup string) (Target, error) {
	if n := doc.CountByID(ContainerID); n > 0 {
		if n > 1 {
			r.logger.Warn("several webring containers found, using the first",
				logger.Int("count", n))
		}
		if err := doc.AppendToElement(ContainerID, markup); err != nil {
			return "", err
		}
		r.logger.Info("webring widget initialized", logger.String("target", "#"+ContainerID))
		return TargetContainer, nil
	}

	if err := doc.AppendToBody(markup); err != nil {
		return "", err
	}
	r.logger.Info("webring widget initialized in document body",
		logger.String("reason", "no #"+ContainerID+" container found"))
	return TargetBody, nil
}

// Humanize turns "indie-games" into "Indie Games".
func Humanize(category string) string {
	words := strings.Split(strings.ReplaceAll(category, "-", " "), " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// sanitizeCSSValue drops characters that could end the declaration, the rule
// or the surrounding <style> element.
func sanitizeCSSValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '\\':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, v)
}
