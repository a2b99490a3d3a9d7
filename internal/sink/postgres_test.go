package sink

import (
	"testing"

	"esbd-engine/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestBuildUpsertSQL(t *testing.T) {
	q, err := buildUpsertSQL("solicitations", []string{"external_id", "source_system"})
	require.NoError(t, err)
	require.Contains(t, q, `INSERT INTO "solicitations" ("external_id", "source_system", `)
	require.Contains(t, q, "$12)")
	require.Contains(t, q, `ON CONFLICT ("external_id", "source_system") DO UPDATE SET "jurisdiction_level" = EXCLUDED."jurisdiction_level"`)
	require.NotContains(t, q, `"external_id" = EXCLUDED`)
	require.Contains(t, q, `"slug" = EXCLUDED."slug"`)

	_, err = buildUpsertSQL(" ", []string{"external_id"})
	require.Error(t, err)
	_, err = buildUpsertSQL("t", nil)
	require.Error(t, err)
}

func TestSplitKeys(t *testing.T) {
	require.Equal(t, []string{"external_id", "source_system"}, splitKeys(" external_id , ,source_system"))
	require.Nil(t, splitKeys(""))
}

func TestRecordArgs(t *testing.T) {
	name := "Bid Form"
	r := domain.CanonicalRecord{
		ExternalID:  "A-1",
		Slug:        "tx-a-1",
		Attachments: []domain.Attachment{{Name: &name, URL: "https://x.test/a.pdf"}},
	}
	args, err := recordArgs(r)
	require.NoError(t, err)
	require.Len(t, args, len(recordColumns))
	require.Equal(t, "A-1", args[0])
	require.JSONEq(t, `[{"name":"Bid Form","url":"https://x.test/a.pdf"}]`, string(args[10].([]byte)))

	r.Attachments = nil
	args, err = recordArgs(r)
	require.NoError(t, err)
	require.Nil(t, args[10].([]byte))
}
