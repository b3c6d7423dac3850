package services

import "github.com/providervault/ai-service/internal/domain/entities"

// MergeCandidates concatenates candidate lists in order, drops records whose
// NPI was already seen and truncates to limit. The second return value is the
// number of unique records before truncation. A limit <= 0 keeps everything.
func MergeCandidates(lists [][]entities.ProviderRecord, limit int) ([]entities.ProviderRecord, int) {
	seen := make(map[string]struct{})
	unique := []entities.ProviderRecord{}

	for _, list := range lists {
		for _, p := range list {
			if _, ok := seen[p.NPI]; ok {
				continue
			}
			seen[p.NPI] = struct{}{}
			unique = append(unique, p)
		}
	}

	total := len(unique)
	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique, total
}
