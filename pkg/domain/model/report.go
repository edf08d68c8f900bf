package model

import "time"

// QualityResult is the outcome of probing one stream URL.
type QualityResult struct {
	URL           string        `json:"url"`
	StatusCode    int           `json:"status,omitempty"`
	ResponseTime  time.Duration `json:"response_time_ms"`
	ContentType   string        `json:"content_type,omitempty"`
	ContentLength int64         `json:"content_length,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// OK reports whether the probe reached the stream.
func (q *QualityResult) OK() bool {
	return q.Error == "" && q.StatusCode >= 200 && q.StatusCode < 400
}

// CollectReport summarizes one collector pipeline execution. It backs both
// report.json and the rendered report.html artifact.
type CollectReport struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	SourceCount   int             `json:"source_count"`
	ParsedCount   int             `json:"parsed_count"`
	KeptCount     int             `json:"kept_count"`
	GroupCounts   map[string]int  `json:"group_counts"`
	Quality       []QualityResult `json:"quality,omitempty"`
	FailedSources []string        `json:"failed_sources,omitempty"`
}

// ReachableCount returns the number of quality probes that succeeded.
func (r *CollectReport) ReachableCount() int {
	var n int
	for i := range r.Quality {
		if r.Quality[i].OK() {
			n++
		}
	}
	return n
}
