package entity

// Link is one anchor extracted from a page. Href is absolute, resolved against
// the page URL; links with no visible text are dropped at extraction time.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// OutputAnalysis is the structured result of asking the model to analyze a
// command's output. Success is nil when the model did not return a parseable
// verdict. Err carries the failure text when the analysis call itself failed.
type OutputAnalysis struct {
	Success     *bool    `json:"success"`
	KeyFindings []string `json:"key_findings"`
	NextSteps   []string `json:"next_steps"`
	Err         string   `json:"error,omitempty"`
}
