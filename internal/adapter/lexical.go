package adapter

import (
	"context"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/aman-cerp/hmrcore/internal/core"
)

// codeTokenizerName, codeStopFilterName, codeAnalyzerName name the custom
// Bleve analyzer chain registered below, grounded on the teacher's
// BleveBM25Index custom "code_tokenizer"/"code_stop" analyzer.
const (
	codeTokenizerName  = "hmr_code_tokenizer"
	codeStopFilterName = "hmr_code_stop"
	codeAnalyzerName   = "hmr_code_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(codeTokenizerName, codeTokenizerConstructor)
	_ = registry.RegisterTokenFilter(codeStopFilterName, codeStopFilterConstructor)
}

// Lexical is the token/BM25 IndexAdapter (§4.1 "Lexical"), wrapping
// github.com/blevesearch/bleve/v2 the same way the teacher's
// BleveBM25Index does, minus the on-disk persistence and corruption
// recovery machinery HMR-Core's stateless per-query contract doesn't need.
type Lexical struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewLexical builds an in-memory Bleve index over the given documents,
// keyed by chunk id. Intended for the demo binary and tests; production
// callers own their own (possibly persisted) Bleve index and adapt it the
// same way.
func NewLexical(documents map[core.ChunkID]string) (*Lexical, error) {
	mapping, err := createLexicalMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, err
	}
	l := &Lexical{index: idx}
	for id, content := range documents {
		if err := idx.Index(string(id), lexicalDoc{Content: content}); err != nil {
			return nil, err
		}
	}
	return l, nil
}

type lexicalDoc struct {
	Content string `json:"content"`
}

func createLexicalMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(codeAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": codeTokenizerName,
		"token_filters": []string{
			lowercase.Name,
			codeStopFilterName,
		},
	})
	if err != nil {
		return nil, err
	}
	im.DefaultAnalyzer = codeAnalyzerName
	return im, nil
}

// Strategy implements core.IndexAdapter.
func (l *Lexical) Strategy() core.Strategy { return core.StrategyLexical }

// Warmup implements core.IndexAdapter. Bleve's in-memory index needs no
// warmup beyond construction.
func (l *Lexical) Warmup(_ context.Context) error { return nil }

// Retrieve implements core.IndexAdapter.
func (l *Lexical) Retrieve(ctx context.Context, query *core.Query, k int) (core.StrategyResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	text := strings.TrimSpace(query.Text)
	if text == "" {
		return core.StrategyResult{}, &core.AdapterError{Kind: core.AdapterErrInvalidQuery, Message: "empty query text"}
	}

	matchQuery := bleve.NewMatchQuery(text)
	matchQuery.SetField("content")

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = k

	result, err := l.index.SearchInContext(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return core.StrategyResult{}, &core.AdapterError{Kind: core.AdapterErrTimeout, Message: err.Error()}
		}
		return core.StrategyResult{}, &core.AdapterError{Kind: core.AdapterErrUnavailable, Message: err.Error()}
	}

	hits := make([]core.ChunkID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, core.ChunkID(hit.ID))
	}
	return core.StrategyResult{Hits: hits}, nil
}

func codeTokenizerConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.Tokenizer, error) {
	return &bleveCodeTokenizer{}, nil
}

type bleveCodeTokenizer struct{}

func (t *bleveCodeTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	tokens := tokenizeCode(text)

	result := make(analysis.TokenStream, 0, len(tokens))
	pos := 1
	offset := 0
	for _, token := range tokens {
		start := strings.Index(strings.ToLower(text[offset:]), strings.ToLower(token))
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(token)
		result = append(result, &analysis.Token{
			Term:     []byte(token),
			Start:    start,
			End:      end,
			Position: pos,
			Type:     analysis.AlphaNumeric,
		})
		pos++
		offset = end
	}
	return result
}

func codeStopFilterConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.TokenFilter, error) {
	return &bleveCodeStopFilter{stopWords: codeStopWords}, nil
}

type bleveCodeStopFilter struct {
	stopWords map[string]struct{}
}

func (f *bleveCodeStopFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	result := make(analysis.TokenStream, 0, len(input))
	for _, token := range input {
		term := strings.ToLower(string(token.Term))
		if _, isStop := f.stopWords[term]; !isStop {
			result = append(result, token)
		}
	}
	return result
}
