package scrape

import (
	"testing"

	"esbd-engine/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestToCanonical(t *testing.T) {
	l := domain.EnrichedListing{
		RawListing: domain.RawListing{
			SolicitationID: "24-001",
			Title:          "Roadway Repair Services!!",
			AgencyCode:     ptr("601"),
			PostedDate:     ptr("2024-02-20"),
			DueDate:        ptr("2024-03-01"),
			DueTime:        ptr("2:30 PM"),
			DetailURL:      "https://www.txsmartbuy.gov/esbd/24-001",
		},
		Attachments: []domain.Attachment{{Name: ptr("Bid Form"), URL: "https://www.txsmartbuy.gov/a.pdf"}},
	}

	got := ToCanonical(l, testRecord)
	require.Equal(t, "24-001", got.ExternalID)
	require.Equal(t, "601", *got.Agency)
	require.Equal(t, "2024-02-20", *got.PostedDate)
	require.Equal(t, "2024-03-01T14:30:00", *got.ResponseDeadline)
	require.Equal(t, "tx-24-001-roadway-repair-services", got.Slug)
	require.Nil(t, got.Description)
	require.Equal(t, l.Attachments, got.Attachments)

	got.Attachments[0].URL = "changed"
	*got.Attachments[0].Name = "changed"
	require.Equal(t, "https://www.txsmartbuy.gov/a.pdf", l.Attachments[0].URL)
	require.Equal(t, "Bid Form", *l.Attachments[0].Name)

	l.AgencyName = ptr("Texas Department of Transportation")
	l.DueTime = nil
	got = ToCanonical(l, testRecord)
	require.Equal(t, "Texas Department of Transportation", *got.Agency)
	require.Equal(t, "2024-03-01", *got.ResponseDeadline)

	l.DueDate = nil
	l.AgencyName, l.AgencyCode = nil, nil
	got = ToCanonical(l, testRecord)
	require.Nil(t, got.ResponseDeadline)
	require.Nil(t, got.Agency)
}

func TestToCanonicalNoAttachmentsStaysNil(t *testing.T) {
	got := ToCanonical(domain.EnrichedListing{RawListing: domain.RawListing{SolicitationID: "X"}}, testRecord)
	require.Nil(t, got.Attachments)
}
