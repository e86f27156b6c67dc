package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, userID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() uuid.UUID {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	user1 := uuid.New()
	user2 := uuid.New()

	client1 := newMockClient("client-1", user1)
	client2 := newMockClient("client-2", user1)
	client3 := newMockClient("client-3", user2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(user1))
	assert.Equal(t, 1, hub.ClientCount(user2))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(user1))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(user1))
	assert.Equal(t, 0, hub.ClientCount(user2))
}

func TestHub_Broadcast_UserIsolation(t *testing.T) {
	hub := NewHub()

	user1 := uuid.New()
	user2 := uuid.New()

	client1a := newMockClient("client-1a", user1)
	client1b := newMockClient("client-1b", user1)
	client2 := newMockClient("client-2", user2)

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)

	event := BudgetCreated(map[string]interface{}{"category": "Food"})
	hub.Broadcast(user1, event)

	// Broadcast sends asynchronously
	require.Eventually(t, func() bool {
		return len(client1a.GetMessages()) == 1 && len(client1b.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Empty(t, client2.GetMessages())
}

func TestHub_Broadcast_NoClients(t *testing.T) {
	hub := NewHub()

	// Should not panic with no registered clients
	hub.Broadcast(uuid.New(), TransactionCreated(nil))
}

func TestHub_Broadcast_ClosedClient(t *testing.T) {
	hub := NewHub()

	userID := uuid.New()
	client := newMockClient("client-1", userID)
	hub.Register(client)
	require.NoError(t, client.Close())

	// Send to a closed client fails internally but must not panic
	hub.Broadcast(userID, TransactionDeleted(nil))

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, client.GetMessages())
}
