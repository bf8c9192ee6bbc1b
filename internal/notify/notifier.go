// internal/notify/notifier.go

// Package notify delivers player-facing messages. The engine does not talk to
// game clients directly; it queues messages per actor and the bridge drains
// the queue on its poll cycle.
package notify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Message is one line destined for a player's chat.
type Message struct {
	ActorID   string    `json:"actor_id"`
	Key       string    `json:"key"`
	Args      []string  `json:"args,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier accepts messages for later delivery.
type Notifier interface {
	Notify(actorID, key string, args ...string)
}

// QueueNotifier buffers messages per actor until the bridge drains them.
// Queues are capped; when a player is offline long enough to overflow, the
// oldest lines drop first.
type QueueNotifier struct {
	mu     sync.Mutex
	queues map[string][]Message
	cap    int
	log    *logrus.Logger
}

func NewQueueNotifier(capacity int, log *logrus.Logger) *QueueNotifier {
	if capacity <= 0 {
		capacity = 100
	}
	return &QueueNotifier{queues: make(map[string][]Message), cap: capacity, log: log}
}

func (n *QueueNotifier) Notify(actorID, key string, args ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	q := append(n.queues[actorID], Message{
		ActorID:   actorID,
		Key:       key,
		Args:      args,
		CreatedAt: time.Now(),
	})
	if len(q) > n.cap {
		q = q[len(q)-n.cap:]
	}
	n.queues[actorID] = q
	n.log.WithFields(logrus.Fields{"actor": actorID, "key": key}).Debug("notification queued")
}

// Drain returns and clears the actor's pending messages.
func (n *QueueNotifier) Drain(actorID string) []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	q := n.queues[actorID]
	delete(n.queues, actorID)
	return q
}
