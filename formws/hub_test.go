package formws

import (
	"encoding/json"
	"testing"
	"time"

	"travauth/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake watcher
	client := &Client{
		Send:   make(chan []byte, 10),
		FormID: "form1",
	}

	// register client
	hub.register <- client

	// broadcast a status event
	event := models.FormEvent{FormID: "form1", Status: models.StatusApproved, At: time.Now().Unix()}
	data, _ := json.Marshal(event)
	hub.broadcast <- statusMsg{FormID: "form1", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	// unregister client
	hub.unregister <- client
}

func TestBroadcastSkipsOtherForms(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	watcher := &Client{Send: make(chan []byte, 10), FormID: "form1"}
	bystander := &Client{Send: make(chan []byte, 10), FormID: "form2"}
	hub.register <- watcher
	hub.register <- bystander

	hub.Broadcast("form1", []byte("update"))

	select {
	case <-watcher.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("form1 watcher never got the event")
	}

	select {
	case got := <-bystander.Send:
		t.Fatalf("form2 watcher received %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnregisterAfterDroppedWatcher(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// nothing drains Send, so the broadcast drops the watcher and
	// closes its channel
	stalled := &Client{Send: make(chan []byte), FormID: "form1"}
	hub.register <- stalled
	hub.Broadcast("form1", []byte("update"))

	// the read pump's deferred unregister still fires afterwards and
	// must not close the channel a second time
	hub.unregister <- stalled

	watcher := &Client{Send: make(chan []byte, 10), FormID: "form1"}
	hub.register <- watcher
	hub.Broadcast("form1", []byte("again"))
	select {
	case <-watcher.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("hub stopped serving after the dropped watcher unregistered")
	}
}

func TestStopClosesWatchers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Send: make(chan []byte, 10), FormID: "form1"}
	hub.register <- client

	hub.Stop()

	select {
	case _, open := <-client.Send:
		if open {
			t.Fatal("expected closed channel, got a message")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for close")
	}

	// a second Stop must not panic
	hub.Stop()
}
