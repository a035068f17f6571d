package cmd

import (
	"context"
	"fmt"

	"github.com/aman-cerp/hmrcore/internal/adapter"
	"github.com/aman-cerp/hmrcore/internal/core"
	"github.com/aman-cerp/hmrcore/internal/embed"
	"github.com/aman-cerp/hmrcore/internal/meta"
)

// fixtureChunk is one entry in the in-memory reference corpus: source text
// plus the call-graph edges and metadata a real ingestion pipeline would
// have already computed.
type fixtureChunk struct {
	id        core.ChunkID
	text      string
	kind      string
	pathDepth int
	tokenSize int
	calls     []string
	calledBy  []string
	imports   []string
}

// sampleCorpus is a small fixed set of Go-ish snippets covering each
// strategy's strength: exact identifiers for Symbol, keyword overlap for
// Lexical, call-chain depth for Graph, and paraphrase-friendly text for
// Vector's static embedder.
func sampleCorpus() []fixtureChunk {
	return []fixtureChunk{
		{
			id:        "chunk-validate-session",
			text:      "func validateSession(ctx context.Context, token string) (*Session, error) { return checkToken(ctx, token) }",
			kind:      "function",
			pathDepth: 3,
			tokenSize: 24,
			calls:     []string{"checkToken"},
		},
		{
			id:        "chunk-check-token",
			text:      "func checkToken(ctx context.Context, token string) (*Claims, error) { return decodeJWT(token) }",
			kind:      "function",
			pathDepth: 3,
			tokenSize: 20,
			calls:     []string{"decodeJWT"},
		},
		{
			id:        "chunk-decode-jwt",
			text:      "func decodeJWT(token string) (*Claims, error) { return jwt.ParseWithClaims(token, &Claims{}, keyFunc) }",
			kind:      "function",
			pathDepth: 2,
			tokenSize: 22,
			imports:   []string{"github.com/golang-jwt/jwt"},
		},
		{
			id:        "chunk-user-repository",
			text:      "type UserRepository struct { db *sql.DB } func (r *UserRepository) FindByID(ctx context.Context, id string) (*User, error)",
			kind:      "class",
			pathDepth: 2,
			tokenSize: 26,
		},
		{
			id:        "chunk-auth-middleware",
			text:      "func AuthMiddleware(next http.Handler) http.Handler { return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { validateSession(r.Context(), extractBearer(r)) }) }",
			kind:      "function",
			pathDepth: 3,
			tokenSize: 30,
			calls:     []string{"validateSession", "extractBearer"},
		},
		{
			id:        "chunk-rate-limiter",
			text:      "type RateLimiter struct { limit int; window time.Duration } func NewRateLimiter(limit int, window time.Duration) *RateLimiter",
			kind:      "class",
			pathDepth: 2,
			tokenSize: 20,
		},
		{
			id:        "chunk-readme-auth",
			text:      "Authentication is handled by validating the session token on every request and decoding the embedded JWT claims.",
			kind:      "file",
			pathDepth: 1,
			tokenSize: 18,
		},
	}
}

// buildCoordinator wires the four reference IndexAdapter implementations and
// a meta.MapProvider over sampleCorpus, the way an embedding service would
// wire its ingestion pipeline's output into a Coordinator.
func buildCoordinator(ctx context.Context) (*core.Coordinator, error) {
	corpus := sampleCorpus()

	documents := make(map[core.ChunkID]string, len(corpus))
	names := make(map[core.ChunkID]string, len(corpus))
	callees := make(map[string][]string)
	callers := make(map[string][]string)
	imports := make(map[string][]string)
	symbolChunks := make(map[string][]core.ChunkID)
	metaEntries := make(map[meta.ChunkID]meta.ChunkMeta, len(corpus))

	for _, c := range corpus {
		documents[c.id] = c.text
		names[c.id] = c.text
		metaEntries[meta.ChunkID(c.id)] = meta.ChunkMeta{
			Kind:      c.kind,
			PathDepth: c.pathDepth,
			TokenSize: c.tokenSize,
		}
		symbolName := string(c.id)
		symbolChunks[symbolName] = append(symbolChunks[symbolName], c.id)
		if len(c.calls) > 0 {
			callees[symbolName] = append(callees[symbolName], c.calls...)
		}
		for _, callee := range c.calls {
			callers[callee] = append(callers[callee], symbolName)
		}
		if len(c.imports) > 0 {
			imports[symbolName] = append(imports[symbolName], c.imports...)
		}
	}

	embedder := embed.NewStaticEmbedder()

	vector, err := adapter.NewVector(ctx, embedder, documents)
	if err != nil {
		return nil, fmt.Errorf("build vector adapter: %w", err)
	}
	lexical, err := adapter.NewLexical(documents)
	if err != nil {
		return nil, fmt.Errorf("build lexical adapter: %w", err)
	}
	symbol, err := adapter.NewSymbol(names)
	if err != nil {
		return nil, fmt.Errorf("build symbol adapter: %w", err)
	}
	graph := adapter.NewGraph(callees, callers, imports, symbolChunks, 0)

	provider := meta.NewMapProvider(metaEntries)

	adapters := []core.IndexAdapter{vector, lexical, symbol, graph}
	return core.NewCoordinator(adapters, core.WithFeatureEmitter(core.NewFeatureEmitter(provider)))
}
