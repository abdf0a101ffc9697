package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"travauth/formws"
	"travauth/models"
	"travauth/rdx"
)

// Notify is a placeholder for side channels (email, audit log) that do
// not go through the status stream.
func Notify(eventName string, subject string) error {
	fmt.Println(eventName, "Notified", subject)
	return nil
}

// Emit publishes a form lifecycle event to Redis instead of pushing to
// watchers directly, so every running instance sees it.
func Emit(ctx context.Context, eventName string, event models.FormEvent) {
	log.Printf("[Emit] START eventName=%s event=%+v", eventName, event)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), "form-events", data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
		return
	}

	log.Printf("[Emit] Event published to channel 'form-events'")
	log.Printf("[Emit] END")
}

// StartEventWorker relays published form events to the WebSocket hub.
func StartEventWorker(hub *formws.Hub) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, "form-events")
	ch := sub.Channel()

	log.Println("[EventWorker] Listening for form events...")

	for msg := range ch {
		var event models.FormEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventWorker] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[EventWorker] Relaying event=%+v", event)
		hub.Broadcast(event.FormID, []byte(msg.Payload))
	}
}
