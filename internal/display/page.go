package display

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"strings"

	"SentimentPulse/internal/domain/models"

	"github.com/PuerkitoBio/goquery"
)

const hiddenClass = "hidden"

//go:embed assets/index.html
var indexHTML []byte

// Page is a server-side copy of the dashboard document.
type Page struct {
	doc    *goquery.Document
	inputs map[string]int
	alerts []string
}

// NewPage parses the embedded dashboard with the given upload counts.
func NewPage(inputs map[string]int) (*Page, error) {
	return NewPageFromTemplate(indexHTML, inputs)
}

// NewPageFromTemplate parses tmpl instead of the embedded dashboard.
func NewPageFromTemplate(tmpl []byte, inputs map[string]int) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(tmpl))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{doc: doc, inputs: copyCounts(inputs)}, nil
}

func (p *Page) InputCount(id string) int { return p.inputs[id] }

func (p *Page) SetText(id, value string) {
	p.byID(id).SetText(value)
}

func (p *Page) SetVisible(id string, visible bool) {
	if visible {
		p.byID(id).RemoveClass(hiddenClass)
		return
	}
	p.byID(id).AddClass(hiddenClass)
}

// SetListItems replaces the children of the list with one <li> per item.
func (p *Page) SetListItems(id string, items []string) {
	list := p.byID(id)
	list.Empty()
	for _, item := range items {
		list.AppendHtml("<li>" + html.EscapeString(item) + "</li>")
	}
}

func (p *Page) Alert(message string) {
	p.alerts = append(p.alerts, message)
	p.SetText(models.AlertID, message)
	p.SetVisible(models.AlertID, true)
}

func (p *Page) Text(id string) string { return p.byID(id).Text() }

func (p *Page) Visible(id string) bool {
	sel := p.byID(id)
	return sel.Length() > 0 && !sel.HasClass(hiddenClass)
}

func (p *Page) ListItems(id string) []string {
	return p.byID(id).Find("li").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
}

func (p *Page) Alerts() []string { return append([]string(nil), p.alerts...) }

// HTML renders the whole document.
func (p *Page) HTML() (string, error) {
	out, err := p.doc.Html()
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	if !strings.HasPrefix(strings.ToLower(out), "<!doctype") {
		out = "<!DOCTYPE html>\n" + out
	}
	return out, nil
}

func (p *Page) byID(id string) *goquery.Selection {
	return p.doc.Find("#" + id)
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
