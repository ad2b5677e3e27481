package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Word tokens of two or more characters, matched on the lowercased text.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// vector is a sparse term-weight vector indexed by vocabulary position.
type vector map[int]float64

func (v vector) dot(w []float64) float64 {
	var sum float64
	for i, x := range v {
		sum += x * w[i]
	}
	return sum
}

// vectorizer converts text into l2-normalized tf-idf vectors. The vocabulary
// and document frequencies are fixed at fit time; unseen terms are dropped.
type vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

func fitVectorizer(docs []string) *vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for tok := range df {
		terms = append(terms, tok)
	}
	sort.Strings(terms)

	v := &vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.vocabulary[term] = i
		// smoothed idf: every term behaves as if seen in one extra document
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

func (v *vectorizer) transform(doc string) vector {
	counts := make(map[int]float64)
	for _, tok := range tokenize(doc) {
		if i, ok := v.vocabulary[tok]; ok {
			counts[i]++
		}
	}

	var norm float64
	for i, c := range counts {
		counts[i] = c * v.idf[i]
		norm += counts[i] * counts[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range counts {
			counts[i] /= norm
		}
	}
	return counts
}

func (v *vectorizer) dimensions() int {
	return len(v.vocabulary)
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
