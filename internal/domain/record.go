package domain

// CanonicalRecord is the normalized output row, one per solicitation.
type CanonicalRecord struct {
	ExternalID        string       `json:"external_id"`
	SourceSystem      string       `json:"source_system"`
	JurisdictionLevel string       `json:"jurisdiction_level"`
	JurisdictionState string       `json:"jurisdiction_state"`
	Title             string       `json:"title"`
	Agency            *string      `json:"agency"`
	PostedDate        *string      `json:"posted_date"`
	ResponseDeadline  *string      `json:"response_deadline"`
	URL               string       `json:"url"`
	Description       *string      `json:"description"`
	Attachments       []Attachment `json:"attachments"`
	Slug              string       `json:"slug"`
}
