// Package notifier delivers order notifications to external receivers.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/minishop/minishop/internal/models"
)

// WebhookNotifier posts order events as JSON to a configured URL. With no
// URL configured it only logs the order, so local setups run without a
// receiver.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// OrderCreated delivers the event to the webhook endpoint.
func (n *WebhookNotifier) OrderCreated(event models.OrderCreatedEvent) error {
	if n.url == "" {
		log.Printf("✅ Order #%d received (no webhook configured)", event.OrderID)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	log.Printf("📤 Webhook delivered for order #%d", event.OrderID)
	return nil
}
