package model

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const defaultTokenPattern = `(?u)\b\w\w+\b`

// VectorizerSpec is the exported state of a fitted TF-IDF vectorizer.
type VectorizerSpec struct {
	Vocabulary   map[string]int `json:"vocabulary" yaml:"vocabulary"`
	IDF          []float64      `json:"idf" yaml:"idf"`
	Lowercase    *bool          `json:"lowercase,omitempty" yaml:"lowercase,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf" yaml:"sublinear_tf"`
	Norm         string         `json:"norm" yaml:"norm"`
	StopWords    []string       `json:"stop_words,omitempty" yaml:"stop_words,omitempty"`
	NgramRange   [2]int         `json:"ngram_range" yaml:"ngram_range"`
	TokenPattern string         `json:"token_pattern,omitempty" yaml:"token_pattern,omitempty"`
}

// Vectorizer applies a frozen vocabulary and idf weights. It holds no mutable
// state after construction and is safe for concurrent use.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	lowercase  bool
	sublinear  bool
	norm       string
	stopWords  map[string]struct{}
	minN, maxN int
	tokenRE    *regexp.Regexp
}

func NewVectorizer(spec VectorizerSpec) (*Vectorizer, error) {
	if len(spec.Vocabulary) == 0 {
		return nil, errors.New("vectorizer vocabulary is empty")
	}
	if len(spec.IDF) != len(spec.Vocabulary) {
		return nil, fmt.Errorf("vectorizer idf length %d does not match vocabulary size %d", len(spec.IDF), len(spec.Vocabulary))
	}
	vocabulary := make(map[string]int, len(spec.Vocabulary))
	for term, col := range spec.Vocabulary {
		if col < 0 || col >= len(spec.IDF) {
			return nil, fmt.Errorf("vocabulary term %q has column %d outside [0,%d)", term, col, len(spec.IDF))
		}
		vocabulary[term] = col
	}

	norm := strings.ToLower(strings.TrimSpace(spec.Norm))
	switch norm {
	case "", "l2":
		norm = "l2"
	case "l1", "none":
	default:
		return nil, fmt.Errorf("unsupported norm %q", spec.Norm)
	}

	minN, maxN := spec.NgramRange[0], spec.NgramRange[1]
	if minN == 0 && maxN == 0 {
		minN, maxN = 1, 1
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("invalid ngram range [%d,%d]", minN, maxN)
	}

	tokenRE, err := compileTokenPattern(spec.TokenPattern)
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}

	lowercase := true
	if spec.Lowercase != nil {
		lowercase = *spec.Lowercase
	}

	stopWords := make(map[string]struct{}, len(spec.StopWords))
	for _, w := range spec.StopWords {
		stopWords[w] = struct{}{}
	}

	return &Vectorizer{
		vocabulary: vocabulary,
		idf:        append([]float64(nil), spec.IDF...),
		lowercase:  lowercase,
		sublinear:  spec.SublinearTF,
		norm:       norm,
		stopWords:  stopWords,
		minN:       minN,
		maxN:       maxN,
		tokenRE:    tokenRE,
	}, nil
}

// Dim is the number of feature columns.
func (v *Vectorizer) Dim() int {
	return len(v.idf)
}

// Transform maps cleaned text onto the frozen vocabulary. Terms outside the
// vocabulary are ignored.
func (v *Vectorizer) Transform(text string) (domain.FeatureVector, error) {
	counts := make(map[int]float64)
	for _, term := range v.analyze(text) {
		if col, ok := v.vocabulary[term]; ok {
			counts[col]++
		}
	}

	indices := make([]int, 0, len(counts))
	for col := range counts {
		indices = append(indices, col)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, col := range indices {
		tf := counts[col]
		if v.sublinear {
			tf = 1 + math.Log(tf)
		}
		values[i] = tf * v.idf[col]
	}
	normalize(values, v.norm)

	return domain.FeatureVector{
		Dim:     v.Dim(),
		Indices: indices,
		Values:  values,
	}, nil
}

func (v *Vectorizer) analyze(text string) []string {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	tokens := v.tokenRE.FindAllString(text, -1)
	if len(v.stopWords) > 0 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := v.stopWords[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}
	if v.minN == 1 && v.maxN == 1 {
		return tokens
	}

	var terms []string
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// compileTokenPattern accepts the exporter's pattern syntax. The (?u) flag has
// no Go equivalent and is dropped; cleaned text is ASCII so \w agrees.
func compileTokenPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = defaultTokenPattern
	}
	return regexp.Compile(strings.TrimPrefix(pattern, "(?u)"))
}

func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case "l2":
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
