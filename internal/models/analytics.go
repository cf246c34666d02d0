package models

// FieldAnalytics aggregates responses for one field. A submission counts as
// a response when the value is present and not the empty string; zero and
// false are responses.
type FieldAnalytics struct {
	FieldID         string `json:"fieldId"`
	FieldLabel      string `json:"fieldLabel"`
	FieldType       string `json:"fieldType"`
	Responses       int    `json:"responses"`
	MostCommonValue string `json:"mostCommonValue,omitempty"`
}

// FormAnalytics is the aggregate view over a form's submissions. Time
// buckets use UTC boundaries: calendar day, ISO week from Monday 00:00, and
// calendar month. CompletionRate is 100 when any submission exists, else 0.
type FormAnalytics struct {
	FormID               string           `json:"formId"`
	TotalSubmissions     int              `json:"totalSubmissions"`
	SubmissionsToday     int              `json:"submissionsToday"`
	SubmissionsThisWeek  int              `json:"submissionsThisWeek"`
	SubmissionsThisMonth int              `json:"submissionsThisMonth"`
	CompletionRate       int              `json:"completionRate"`
	FieldAnalytics       []FieldAnalytics `json:"fieldAnalytics"`
	SubmissionTrend      map[string]int   `json:"submissionTrend"`
}
