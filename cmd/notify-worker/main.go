package main

import (
	"log"

	"github.com/minishop/minishop/internal/config"
	"github.com/minishop/minishop/internal/consumer"
	"github.com/minishop/minishop/internal/messaging"
	"github.com/minishop/minishop/internal/notifier"
	"github.com/minishop/minishop/internal/publisher"
)

func main() {
	cfg := config.Load()

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	if err := rabbitMQ.DeclareQueue(publisher.OrderCreatedQueue); err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}

	messages, err := rabbitMQ.Consume(publisher.OrderCreatedQueue)
	if err != nil {
		log.Fatalf("Failed to consume messages: %v", err)
	}

	if cfg.WebhookURL == "" {
		log.Println("⚠️ WEBHOOK_URL not set, notifications are log-only")
	}
	webhook := notifier.NewWebhookNotifier(cfg.WebhookURL)

	log.Println("🚀 Notify Worker started")
	notificationConsumer := consumer.NewNotificationConsumer(webhook)
	notificationConsumer.ProcessOrderCreated(messages)
}
