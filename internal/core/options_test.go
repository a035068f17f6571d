package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerStrategyK_FloorsAt50(t *testing.T) {
	assert.Equal(t, 50, perStrategyK(1))
	assert.Equal(t, 50, perStrategyK(10))
}

func TestPerStrategyK_ThreeTimesKFinalInRange(t *testing.T) {
	assert.Equal(t, 60, perStrategyK(20))
	assert.Equal(t, 120, perStrategyK(40))
}

func TestPerStrategyK_CeilingsAt300(t *testing.T) {
	assert.Equal(t, 300, perStrategyK(200))
}

func TestDefaultCoreConfig_MatchesSpecDefaults(t *testing.T) {
	cfg := DefaultCoreConfig()

	assert.Equal(t, time.Second, cfg.TotalDeadline)
	assert.Equal(t, 400*time.Millisecond, cfg.StrategyDeadline)
	assert.Equal(t, 64, cfg.MaxConcurrentQueries)
	assert.NotEmpty(t, cfg.ScoringVersion)
}
