// Package lexrank ranks the sentences of a text block by graph centrality.
//
// Sentences are nodes of a graph whose edges carry the idf-modified cosine
// similarity of their stemmed, stop-word-free terms. Edges below the
// similarity threshold are dropped, so the graph is stored as sparse rows,
// and scores are computed by PageRank power iteration over the
// row-normalized graph.
package lexrank

import (
	"cmp"
	"errors"
	"maps"
	"math"
	"slices"

	"gist/internal/text"
)

const (
	DefaultThreshold     = 0.1
	DefaultDamping       = 0.85
	DefaultEpsilon       = 1e-6
	DefaultMaxIterations = 200

	// Scores closer than this are treated as a tie.
	tieResolution = 1e12
)

var (
	ErrNoSentences  = errors.New("no sentences to rank")
	ErrNoTerms      = errors.New("no content terms to rank")
	ErrNotConverged = errors.New("ranking did not converge")
)

// RankedSentence is one sentence of a ranked block.
type RankedSentence struct {
	Text  string
	Score float64
	// Index is the position of the sentence in the original block.
	Index int
}

// Ranker holds the LexRank tuning knobs. The zero value is not usable;
// build one with New.
type Ranker struct {
	Threshold     float64
	Damping       float64
	Epsilon       float64
	MaxIterations int
}

func New() *Ranker {
	return &Ranker{
		Threshold:     DefaultThreshold,
		Damping:       DefaultDamping,
		Epsilon:       DefaultEpsilon,
		MaxIterations: DefaultMaxIterations,
	}
}

// Rank returns the sentences of s ordered by descending score. Ties go to
// the sentence that appears first.
func (r *Ranker) Rank(s string) ([]RankedSentence, error) {
	sentences := text.Split(s)
	if len(sentences) == 0 {
		return nil, ErrNoSentences
	}

	vectors, ok := weightedVectors(sentences)
	if !ok {
		return nil, ErrNoTerms
	}

	scores, err := r.scores(similarityGraph(vectors, r.Threshold))
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedSentence, len(sentences))
	for i, sentence := range sentences {
		ranked[i] = RankedSentence{Text: sentence, Score: scores[i], Index: i}
	}

	slices.SortStableFunc(ranked, func(a, b RankedSentence) int {
		if c := cmp.Compare(quantize(b.Score), quantize(a.Score)); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	return ranked, nil
}

// vector is a sparse tf-idf vector with terms in ascending index order, so
// every sum over it runs in the same order.
type vector struct {
	terms   []int
	weights []float64
	norm    float64
}

// edge is a transition to another sentence of the graph.
type edge struct {
	to     int
	weight float64
}

// weightedVectors builds tf-idf vectors per sentence. It reports false when
// no sentence has a single content term.
func weightedVectors(sentences []string) ([]vector, bool) {
	tfs := make([]map[string]float64, len(sentences))
	df := make(map[string]int)

	for i, sentence := range sentences {
		tfs[i] = termFrequencies(terms(sentence))
		for t := range tfs[i] {
			df[t]++
		}
	}

	if len(df) == 0 {
		return nil, false
	}

	vocabulary := slices.Sorted(maps.Keys(df))
	index := make(map[string]int, len(vocabulary))
	for i, t := range vocabulary {
		index[t] = i
	}

	n := float64(len(sentences))
	vectors := make([]vector, len(sentences))
	for i, tf := range tfs {
		ids := make([]int, 0, len(tf))
		for t := range tf {
			ids = append(ids, index[t])
		}
		slices.Sort(ids)

		v := vector{terms: ids, weights: make([]float64, len(ids))}
		for k, id := range ids {
			t := vocabulary[id]
			w := tf[t] * math.Log(1+n/float64(df[t]))
			v.weights[k] = w
			v.norm += w * w
		}
		v.norm = math.Sqrt(v.norm)

		vectors[i] = v
	}

	return vectors, true
}

// similarityGraph returns the row-normalized transition graph without
// self-loops, keeping only edges at or above threshold. A sentence with no
// neighbours has no edges and spreads its score uniformly.
func similarityGraph(vectors []vector, threshold float64) [][]edge {
	n := len(vectors)
	graph := make([][]edge, n)

	for i := range n {
		for j := i + 1; j < n; j++ {
			sim := cosine(vectors[i], vectors[j])
			if sim < threshold || sim == 0 {
				continue
			}
			graph[i] = append(graph[i], edge{to: j, weight: sim})
			graph[j] = append(graph[j], edge{to: i, weight: sim})
		}
	}

	for _, row := range graph {
		var sum float64
		for _, e := range row {
			sum += e.weight
		}
		for k := range row {
			row[k].weight /= sum
		}
	}

	return graph
}

func cosine(a, b vector) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}

	var dot float64
	for i, j := 0, 0; i < len(a.terms) && j < len(b.terms); {
		switch {
		case a.terms[i] < b.terms[j]:
			i++
		case a.terms[i] > b.terms[j]:
			j++
		default:
			dot += a.weights[i] * b.weights[j]
			i++
			j++
		}
	}

	return dot / (a.norm * b.norm)
}

func (r *Ranker) scores(graph [][]edge) ([]float64, error) {
	n := float64(len(graph))
	teleport := (1 - r.Damping) / n

	p := make([]float64, len(graph))
	for i := range p {
		p[i] = 1 / n
	}

	next := make([]float64, len(graph))
	for range r.MaxIterations {
		var dangling float64
		for i, row := range graph {
			if len(row) == 0 {
				dangling += p[i]
			}
		}

		base := teleport + r.Damping*dangling/n
		for j := range next {
			next[j] = base
		}
		for i, row := range graph {
			for _, e := range row {
				next[e.to] += r.Damping * p[i] * e.weight
			}
		}

		var delta float64
		for i := range p {
			if math.IsNaN(next[i]) || math.IsInf(next[i], 0) {
				return nil, ErrNotConverged
			}
			delta += math.Abs(next[i] - p[i])
		}

		p, next = next, p

		if delta < r.Epsilon {
			return p, nil
		}
	}

	return nil, ErrNotConverged
}

func quantize(score float64) float64 {
	return math.Round(score * tieResolution)
}
