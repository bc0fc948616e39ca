package notifier_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minishop/minishop/internal/models"
	"github.com/minishop/minishop/internal/notifier"
)

func sampleEvent() models.OrderCreatedEvent {
	return models.OrderCreatedEvent{
		OrderID:   5,
		ShipAddr:  "123 Main St",
		OrderDate: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Details: []models.OrderDetailEvent{
			{ProductID: 1, Quantity: 2, Discount: 0.1},
		},
	}
}

func TestWebhookNotifier(t *testing.T) {
	t.Run("Posts the event as JSON", func(t *testing.T) {
		var received models.OrderCreatedEvent
		var contentType string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		n := notifier.NewWebhookNotifier(server.URL)

		require.NoError(t, n.OrderCreated(sampleEvent()))
		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, 5, received.OrderID)
		require.Len(t, received.Details, 1)
		assert.Equal(t, 2, received.Details[0].Quantity)
	})

	t.Run("Reports an error on a non 2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		n := notifier.NewWebhookNotifier(server.URL)

		err := n.OrderCreated(sampleEvent())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook returned status 500")
	})

	t.Run("Reports an error when the receiver is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		n := notifier.NewWebhookNotifier(server.URL)

		assert.Error(t, n.OrderCreated(sampleEvent()))
	})

	t.Run("Only logs when no URL is configured", func(t *testing.T) {
		n := notifier.NewWebhookNotifier("")

		assert.NoError(t, n.OrderCreated(sampleEvent()))
	})
}
