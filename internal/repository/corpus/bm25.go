package corpus

import (
	"math"
	"strings"
	"unicode"
)

// Okapi BM25 parameters, standard values.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// bm25Index is an incremental BM25 index over tokenized documents.
type bm25Index struct {
	termFreqs []map[string]int // per document
	docLens   []int
	docFreq   map[string]int // documents containing term
	totalLen  int
}

func newBM25Index() *bm25Index {
	return &bm25Index{docFreq: make(map[string]int)}
}

func (idx *bm25Index) add(text string) {
	tokens := tokenize(text)

	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	for t := range tf {
		idx.docFreq[t]++
	}

	idx.termFreqs = append(idx.termFreqs, tf)
	idx.docLens = append(idx.docLens, len(tokens))
	idx.totalLen += len(tokens)
}

// scores computes the BM25 score of every indexed document for the query.
// Documents sharing no terms with the query score 0.
func (idx *bm25Index) scores(query string) []float64 {
	n := len(idx.termFreqs)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	queryTokens := tokenize(query)
	avgLen := float64(idx.totalLen) / float64(n)

	for _, t := range queryTokens {
		df := idx.docFreq[t]
		if df == 0 {
			continue
		}
		idf := math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))

		for i, tf := range idx.termFreqs {
			f := float64(tf[t])
			if f == 0 {
				continue
			}
			norm := 1 - bm25B + bm25B*float64(idx.docLens[i])/avgLen
			out[i] += idf * (f * (bm25K1 + 1)) / (f + bm25K1*norm)
		}
	}
	return out
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}
