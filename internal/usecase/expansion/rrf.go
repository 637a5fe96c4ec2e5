package expansion

import (
	"sort"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// defaultRRFK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const defaultRRFK = 60

// fuseRRF merges per-variant rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(rank_i(d) + k) over every ranking where d appears,
// with rank counted from 0. Documents are identified by exact content;
// ties keep first-seen order across rankings.
func fuseRRF(rankings [][]domain.ScoredDocument, k int) []domain.ScoredDocument {
	if k <= 0 {
		k = defaultRRFK
	}

	type scored struct {
		doc   domain.Document
		score float64
	}

	byContent := make(map[string]*scored)
	var order []*scored

	for _, ranking := range rankings {
		for rank, d := range ranking {
			contribution := 1.0 / float64(rank+k)
			key := d.Doc.Content()
			if e, ok := byContent[key]; ok {
				e.score += contribution
				continue
			}
			e := &scored{doc: d.Doc, score: contribution}
			byContent[key] = e
			order = append(order, e)
		}
	}

	fused := make([]domain.ScoredDocument, len(order))
	for i, e := range order {
		fused[i] = domain.ScoredDocument{Doc: e.doc, Score: e.score}
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	return fused
}
