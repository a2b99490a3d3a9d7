package scrape

import (
	"esbd-engine/internal/domain"
	"esbd-engine/internal/scrape/types"
	"esbd-engine/internal/scrape/util"
)

// ToCanonical projects a listing into the output schema. Missing inputs stay nil.
func ToCanonical(l domain.EnrichedListing, rc types.RecordConfig) domain.CanonicalRecord {
	agency := l.AgencyName
	if agency == nil {
		agency = l.AgencyCode
	}
	return domain.CanonicalRecord{
		ExternalID:        l.SolicitationID,
		SourceSystem:      rc.SourceSystem,
		JurisdictionLevel: rc.JurisdictionLevel,
		JurisdictionState: rc.JurisdictionState,
		Title:             l.Title,
		Agency:            agency,
		PostedDate:        l.PostedDate,
		ResponseDeadline:  util.CombineDeadline(l.DueDate, l.DueTime),
		URL:               l.DetailURL,
		Description:       l.Description,
		Attachments:       cloneAttachments(l.Attachments),
		Slug:              util.Slugify(rc.JurisdictionState+" "+l.SolicitationID+" "+l.Title, util.DefaultSlugLen),
	}
}

// cloneAttachments copies the slice and each Name so the record shares no
// memory with the listing. nil stays nil.
func cloneAttachments(in []domain.Attachment) []domain.Attachment {
	if in == nil {
		return nil
	}
	out := make([]domain.Attachment, len(in))
	for i, a := range in {
		out[i].URL = a.URL
		if a.Name != nil {
			name := *a.Name
			out[i].Name = &name
		}
	}
	return out
}

func MapRecords(items []domain.EnrichedListing, rc types.RecordConfig) []domain.CanonicalRecord {
	out := make([]domain.CanonicalRecord, 0, len(items))
	for _, it := range items {
		out = append(out, ToCanonical(it, rc))
	}
	return out
}
