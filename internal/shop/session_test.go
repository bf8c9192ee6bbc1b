package shop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclabs/buttonshop/internal/models"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionManager()

	_, ok := m.Get("p1")
	assert.False(t, ok)

	s := m.Begin("p1", models.ShopKindSell, pos(1, 64, 1))
	assert.Equal(t, "p1", s.ActorID)

	got, ok := m.Get("p1")
	require.True(t, ok)
	assert.Equal(t, models.ShopKindSell, got.Kind)
	assert.Equal(t, pos(1, 64, 1), got.Position)

	ended, ok := m.End("p1")
	require.True(t, ok)
	assert.Equal(t, s.Position, ended.Position)

	_, ok = m.Get("p1")
	assert.False(t, ok)
}

func TestSessionReplacedOnNewBegin(t *testing.T) {
	m := NewSessionManager()
	m.Begin("p1", models.ShopKindSell, pos(1, 64, 1))
	m.Begin("p1", models.ShopKindBuy, pos(2, 64, 2))

	got, ok := m.Get("p1")
	require.True(t, ok)
	assert.Equal(t, models.ShopKindBuy, got.Kind)
	assert.Equal(t, pos(2, 64, 2), got.Position)
}

func TestSessionExpires(t *testing.T) {
	m := NewSessionManager()
	s := m.Begin("p1", models.ShopKindSell, pos(1, 64, 1))
	s.StartedAt = time.Now().Add(-SessionTTL - time.Second)

	_, ok := m.Get("p1")
	assert.False(t, ok)

	s = m.Begin("p1", models.ShopKindSell, pos(1, 64, 1))
	s.StartedAt = time.Now().Add(-SessionTTL - time.Second)
	_, ok = m.End("p1")
	assert.False(t, ok)
}
