package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/hmrcore/internal/core"
)

func TestLexical_Retrieve_MatchesOnTokenizedContent(t *testing.T) {
	lex, err := NewLexical(map[core.ChunkID]string{
		"auth": "func validateSession(token string) (bool, error)",
		"db":   "func openConnection(dsn string) (*sql.DB, error)",
	})
	require.NoError(t, err)

	result, err := lex.Retrieve(context.Background(), &core.Query{Text: "validate session token"}, 10)

	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, core.ChunkID("auth"), result.Hits[0])
}

func TestLexical_Retrieve_EmptyTextIsInvalid(t *testing.T) {
	lex, err := NewLexical(map[core.ChunkID]string{"a": "func foo()"})
	require.NoError(t, err)

	_, err = lex.Retrieve(context.Background(), &core.Query{Text: "   "}, 10)

	require.Error(t, err)
	var ae *core.AdapterError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, core.AdapterErrInvalidQuery, ae.Kind)
}

func TestLexical_Retrieve_RespectsK(t *testing.T) {
	docs := map[core.ChunkID]string{}
	for i := 0; i < 10; i++ {
		docs[core.ChunkID(rune('a'+i))] = "shared keyword token"
	}
	lex, err := NewLexical(docs)
	require.NoError(t, err)

	result, err := lex.Retrieve(context.Background(), &core.Query{Text: "shared keyword"}, 3)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Hits), 3)
}

func TestLexical_Strategy_ReportsLexical(t *testing.T) {
	lex, err := NewLexical(map[core.ChunkID]string{})
	require.NoError(t, err)

	assert.Equal(t, core.StrategyLexical, lex.Strategy())
}

func TestLexical_ImplementsIndexAdapter(t *testing.T) {
	var _ core.IndexAdapter = (*Lexical)(nil)
}
