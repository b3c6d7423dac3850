package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/providervault/ai-service/internal/application/services"
	"github.com/providervault/ai-service/internal/domain/entities"
)

func records(ids ...string) []entities.ProviderRecord {
	out := make([]entities.ProviderRecord, 0, len(ids))
	for _, npi := range ids {
		out = append(out, entities.ProviderRecord{NPI: npi, Name: "Provider " + npi})
	}
	return out
}

func npis(records []entities.ProviderRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.NPI)
	}
	return out
}

func TestMergeCandidates_DedupKeepsFirstSeenOrder(t *testing.T) {
	lists := [][]entities.ProviderRecord{records("A", "B"), records("B", "C")}

	for _, limit := range []int{0, 1, 2, 3, 10} {
		merged, total := services.MergeCandidates(lists, limit)

		assert.Equal(t, 3, total, "limit %d", limit)
		want := []string{"A", "B", "C"}
		if limit > 0 && limit < len(want) {
			want = want[:limit]
		}
		assert.Equal(t, want, npis(merged), "limit %d", limit)
	}
}

func TestMergeCandidates_Idempotent(t *testing.T) {
	lists := [][]entities.ProviderRecord{records("A", "B", "A"), records("C", "B", "D"), nil}

	once, _ := services.MergeCandidates(lists, 3)
	twice, total := services.MergeCandidates([][]entities.ProviderRecord{once}, 3)

	assert.Equal(t, once, twice)
	assert.Equal(t, 3, total)
}

func TestMergeCandidates_EmptyInput(t *testing.T) {
	merged, total := services.MergeCandidates(nil, 10)

	assert.NotNil(t, merged)
	assert.Empty(t, merged)
	assert.Zero(t, total)
}
