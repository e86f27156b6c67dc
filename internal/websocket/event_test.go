package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"category": "Food",
		"amount":   "200.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeBudget, payload)
	after := time.Now()

	assert.Equal(t, "budget.created", evt.Type)
	assert.Equal(t, EntityTypeBudget, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := TransactionCreated(map[string]interface{}{"category": "Groceries"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "transaction.created", decoded["type"])
	assert.Equal(t, "transaction", decoded["entity"])
	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Groceries", payload["category"])
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{"transaction created", TransactionCreated(nil), "transaction.created"},
		{"transaction updated", TransactionUpdated(nil), "transaction.updated"},
		{"transaction deleted", TransactionDeleted(nil), "transaction.deleted"},
		{"budget created", BudgetCreated(nil), "budget.created"},
		{"budget updated", BudgetUpdated(nil), "budget.updated"},
		{"budget deleted", BudgetDeleted(nil), "budget.deleted"},
		{"category created", CategoryCreated(nil), "category.created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Type)
		})
	}
}
