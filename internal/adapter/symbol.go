package adapter

import (
	"context"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"

	"github.com/aman-cerp/hmrcore/internal/core"
)

// Symbol is the fully-qualified-name IndexAdapter (§4.1 "Symbol"). It reuses
// bleve/v2 a second time — a dedicated index over symbol names with a
// keyword (untokenized) field — instead of introducing a second indexing
// library: an exact-match term query followed by a prefix-query fallback,
// unioned with exact matches listed first, satisfies the spec's "exact
// matches before prefix matches" rule.
type Symbol struct {
	mu    sync.RWMutex
	index bleve.Index
}

type symbolDoc struct {
	Name string `json:"name"`
}

// NewSymbol builds an in-memory symbol index from fully-qualified name to
// chunk id. The input map is keyed by chunk id, so each chunk is indexed
// under exactly one name; every call builds a separate, independent index.
func NewSymbol(names map[core.ChunkID]string) (*Symbol, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("name", nameField)
	im.AddDocumentMapping("_default", docMapping)

	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, err
	}
	for id, name := range names {
		if err := idx.Index(string(id), symbolDoc{Name: strings.ToLower(name)}); err != nil {
			return nil, err
		}
	}
	return &Symbol{index: idx}, nil
}

// Strategy implements core.IndexAdapter.
func (s *Symbol) Strategy() core.Strategy { return core.StrategySymbol }

// Warmup implements core.IndexAdapter.
func (s *Symbol) Warmup(_ context.Context) error { return nil }

// Retrieve implements core.IndexAdapter.
func (s *Symbol) Retrieve(ctx context.Context, query *core.Query, k int) (core.StrategyResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text := strings.ToLower(strings.TrimSpace(query.Text))
	if text == "" {
		return core.StrategyResult{}, &core.AdapterError{Kind: core.AdapterErrInvalidQuery, Message: "empty query text"}
	}

	hits := make([]core.ChunkID, 0, k)
	seen := make(map[core.ChunkID]bool, k)

	exactQuery := bleve.NewTermQuery(text)
	exactQuery.SetField("name")
	exactReq := bleve.NewSearchRequest(exactQuery)
	exactReq.Size = k
	exactResult, err := s.index.SearchInContext(ctx, exactReq)
	if err != nil {
		return core.StrategyResult{}, adapterErrorFor(ctx, err)
	}
	for _, hit := range exactResult.Hits {
		id := core.ChunkID(hit.ID)
		if !seen[id] {
			hits = append(hits, id)
			seen[id] = true
		}
	}

	if len(hits) < k {
		prefixQuery := bleve.NewPrefixQuery(text)
		prefixQuery.SetField("name")
		prefixReq := bleve.NewSearchRequest(prefixQuery)
		prefixReq.Size = k
		prefixResult, err := s.index.SearchInContext(ctx, prefixReq)
		if err != nil {
			return core.StrategyResult{}, adapterErrorFor(ctx, err)
		}
		for _, hit := range prefixResult.Hits {
			if len(hits) >= k {
				break
			}
			id := core.ChunkID(hit.ID)
			if !seen[id] {
				hits = append(hits, id)
				seen[id] = true
			}
		}
	}

	return core.StrategyResult{Hits: hits}, nil
}

func adapterErrorFor(ctx context.Context, err error) *core.AdapterError {
	if ctx.Err() != nil {
		return &core.AdapterError{Kind: core.AdapterErrTimeout, Message: err.Error()}
	}
	return &core.AdapterError{Kind: core.AdapterErrUnavailable, Message: err.Error()}
}
