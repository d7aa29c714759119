package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestHub_DeliversOnlyToTargetUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	alice, bob := uuid.New(), uuid.New()
	ca := &Client{hub: hub, userID: alice, send: make(chan []byte, 4)}
	cb := &Client{hub: hub, userID: bob, send: make(chan []byte, 4)}
	hub.Register(ca)
	hub.Register(cb)
	waitFor(t, func() bool { return hub.ClientCount(alice) == 1 && hub.ClientCount(bob) == 1 })

	NewNotifier(hub).ScreeningProgress(alice, ProgressEvent{FileName: "cv.pdf", Status: "complete", Processed: 1, Total: 2, SuccessCount: 1})

	select {
	case msg := <-ca.send:
		var evt ProgressEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Type != EventScreeningProgress || evt.FileName != "cv.pdf" || evt.Processed != 1 || evt.Total != 2 {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("alice did not receive the event")
	}

	select {
	case msg := <-cb.send:
		t.Fatalf("bob received %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	uid := uuid.New()
	c := &Client{hub: hub, userID: uid, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount(uid) == 1 })

	hub.Unregister(c)
	waitFor(t, func() bool { return hub.ClientCount(uid) == 0 })

	if _, ok := <-c.send; ok {
		t.Fatal("expected send channel closed")
	}
}

func TestNotifier_NilSafe(t *testing.T) {
	var n *Notifier
	n.ScreeningProgress(uuid.New(), ProgressEvent{})
	var h *Hub
	h.SendTo(uuid.New(), nil)
}
