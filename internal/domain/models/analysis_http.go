package models

// AnalysisRequest holds the query parameters of the JSON analysis endpoint.
type AnalysisRequest struct {
	Format string `query:"format" default:"full" validate:"oneof=full compact"`
}

// AnalysisView is the JSON rendering of a display after a run.
type AnalysisView struct {
	Presence InputPresence     `json:"presence"`
	Visible  map[string]bool   `json:"visible,omitempty"`
	Fields   map[string]string `json:"fields"`
	Insights []string          `json:"insights"`
}
