package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"LuxeStore/internal/kv"
)

func TestStartSweeper_RejectsBadSchedule(t *testing.T) {
	r, _, _ := newRegistry(t, kv.NewMemStore())

	_, err := StartSweeper(r, "every now and then", time.Minute, zap.NewNop())
	assert.Error(t, err)

	c, err := StartSweeper(r, "@every 1h", time.Minute, zap.NewNop())
	require.NoError(t, err)
	<-c.Stop().Done()
}
