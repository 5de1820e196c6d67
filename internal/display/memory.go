package display

import (
	"sort"

	"SentimentPulse/internal/domain/models"
	"SentimentPulse/internal/domain/repository"
)

// Memory keeps display state in maps. The results container starts hidden.
type Memory struct {
	inputs  map[string]int
	text    map[string]string
	visible map[string]bool
	lists   map[string][]string
	alerts  []string
}

func NewMemory(inputs map[string]int) *Memory {
	return &Memory{
		inputs:  copyCounts(inputs),
		text:    make(map[string]string),
		visible: map[string]bool{models.ResultsID: false},
		lists:   make(map[string][]string),
	}
}

func (m *Memory) InputCount(id string) int { return m.inputs[id] }

func (m *Memory) SetText(id, value string) { m.text[id] = value }

func (m *Memory) SetVisible(id string, visible bool) { m.visible[id] = visible }

func (m *Memory) SetListItems(id string, items []string) {
	m.lists[id] = append([]string(nil), items...)
}

func (m *Memory) Alert(message string) { m.alerts = append(m.alerts, message) }

func (m *Memory) Text(id string) string { return m.text[id] }

func (m *Memory) Visible(id string) bool { return m.visible[id] }

func (m *Memory) ListItems(id string) []string { return append([]string(nil), m.lists[id]...) }

func (m *Memory) Alerts() []string { return append([]string(nil), m.alerts...) }

// Written reports whether any element other than an alert has been touched.
func (m *Memory) Written() bool {
	if len(m.text) > 0 || len(m.lists) > 0 {
		return true
	}
	for _, v := range m.visible {
		if v {
			return true
		}
	}
	return false
}

// View renders the state for the JSON API. compact drops visibility flags.
func (m *Memory) View(compact bool) models.AnalysisView {
	v := models.AnalysisView{
		Presence: models.InputPresence{
			SentimentFiles: m.inputs[models.SentimentFileID],
			TraderFiles:    m.inputs[models.TraderFileID],
		},
		Fields:   make(map[string]string, len(m.text)),
		Insights: m.ListItems(models.InsightsListID),
	}
	for k, s := range m.text {
		v.Fields[k] = s
	}
	if !compact {
		v.Visible = make(map[string]bool, len(m.visible))
		for k, b := range m.visible {
			v.Visible[k] = b
		}
	}
	return v
}

// ApplyTo replays the recorded state onto d: alerts first, then visibility,
// text and lists. Keys are applied in sorted order.
func (m *Memory) ApplyTo(d repository.Display) {
	for _, a := range m.alerts {
		d.Alert(a)
	}
	for _, id := range sortedKeys(m.visible) {
		d.SetVisible(id, m.visible[id])
	}
	for _, id := range sortedKeys(m.text) {
		d.SetText(id, m.text[id])
	}
	for _, id := range sortedKeys(m.lists) {
		d.SetListItems(id, m.lists[id])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
