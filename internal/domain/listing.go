package domain

// Attachment is a document linked from a solicitation detail page.
type Attachment struct {
	Name *string `json:"name"`
	URL  string  `json:"url"`
}

// RawListing is one row harvested from an ESBD listing page.
type RawListing struct {
	SolicitationID string  `json:"solicitation_id"`
	Title          string  `json:"title"`
	AgencyCode     *string `json:"agency_code"`
	Status         *string `json:"status"`
	PostedDate     *string `json:"posted_date"` // YYYY-MM-DD
	DueDate        *string `json:"due_date"`    // YYYY-MM-DD
	DueTime        *string `json:"due_time"`    // "2:30 PM"
	DetailURL      string  `json:"detail_url"`
}

// EnrichedListing is a RawListing plus whatever the detail page yielded.
// Listings past the detail cap keep every detail field nil.
type EnrichedListing struct {
	RawListing
	Description *string      `json:"description"`
	AgencyName  *string      `json:"agency_name"`
	Attachments []Attachment `json:"attachments"`
	DetailError *string      `json:"detail_error,omitempty"`
}
