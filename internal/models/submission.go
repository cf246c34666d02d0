package models

import "time"

// Submission is one respondent's answers to a published form. Data maps
// field id to the submitted value and is stored verbatim; the server never
// interprets individual values.
type Submission struct {
	ID          string         `bson:"id" json:"id"`
	FormID      string         `bson:"formId" json:"formId"`
	Data        map[string]any `bson:"data" json:"data"`
	Files       []string       `bson:"files,omitempty" json:"files,omitempty"` // file document ids
	SubmittedAt time.Time      `bson:"submittedAt" json:"submittedAt"`
	IPAddress   string         `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent   string         `bson:"userAgent,omitempty" json:"userAgent,omitempty"`

	// SearchText is a lowercased concatenation of the scalar data values,
	// maintained at insert so text search stays a single field match. Never
	// exposed over the wire.
	SearchText string `bson:"searchText,omitempty" json:"-"`
}
