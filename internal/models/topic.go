package models

// Topic is a canonicalized label extracted from tags, categories and keywords.
type Topic struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	Percentage    float64  `json:"percentage"`
	RelatedTopics []string `json:"relatedTopics,omitempty"`
}
