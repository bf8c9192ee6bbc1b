package notify

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestQueueNotifierDrain(t *testing.T) {
	n := NewQueueNotifier(10, testLogger())
	n.Notify("p1", "trade.bought", "3", "minecraft:diamond", "31")
	n.Notify("p1", "shop.out_of_stock", "abc")
	n.Notify("p2", "trade.sold", "1", "minecraft:emerald", "9")

	msgs := n.Drain("p1")
	require.Len(t, msgs, 2)
	assert.Equal(t, "trade.bought", msgs[0].Key)
	assert.Equal(t, []string{"3", "minecraft:diamond", "31"}, msgs[0].Args)

	// Drain clears.
	assert.Empty(t, n.Drain("p1"))
	assert.Len(t, n.Drain("p2"), 1)
}

func TestQueueNotifierCapDropsOldest(t *testing.T) {
	n := NewQueueNotifier(3, testLogger())
	for i := 0; i < 5; i++ {
		n.Notify("p1", "key", fmt.Sprintf("%d", i))
	}

	msgs := n.Drain("p1")
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"2"}, msgs[0].Args)
	assert.Equal(t, []string{"4"}, msgs[2].Args)
}
