package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ridelink/ridelink-backend/internal/models"
)

func newTestClient(hub *Hub, id uint) *Client {
	c := &Client{
		ID:    id,
		Role:  "rider",
		Send:  make(chan []byte, 8),
		Hub:   hub,
		rides: make(map[uint]bool),
	}
	hub.mutex.Lock()
	hub.clients[c] = true
	hub.mutex.Unlock()
	return c
}

func TestEmitRideStatusUpdated(t *testing.T) {
	hub := NewHub(zap.NewNop())
	subscriber := newTestClient(hub, 1)
	bystander := newTestClient(hub, 2)
	hub.subscribeRide(subscriber, 42)

	hub.EmitRideStatusUpdated(RideStatusEvent{
		RideID:    42,
		NewStatus: models.RideStatusCompleted,
		RideDetails: &models.Ride{
			RiderID: 1,
			Status:  models.RideStatusCompleted,
		},
	})

	select {
	case raw := <-subscriber.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "ride_status_updated", msg.Type)

		data, ok := msg.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(42), data["rideId"])
		assert.Equal(t, string(models.RideStatusCompleted), data["newStatus"])
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case <-bystander.Send:
		t.Fatal("unsubscribed client received the event")
	default:
	}
}

func TestEmitSkipsUnsubscribedRide(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := newTestClient(hub, 1)
	hub.subscribeRide(client, 7)
	hub.unsubscribeRide(client, 7)

	hub.EmitRideStatusUpdated(RideStatusEvent{RideID: 7, NewStatus: models.RideStatusCancelled})

	select {
	case <-client.Send:
		t.Fatal("client received an event after unsubscribing")
	default:
	}
}

func TestEmitDoesNotBlockOnSlowClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	slow := &Client{
		ID:    1,
		Send:  make(chan []byte), // unbuffered, nobody reading
		Hub:   hub,
		rides: map[uint]bool{9: true},
	}
	hub.mutex.Lock()
	hub.clients[slow] = true
	hub.mutex.Unlock()

	done := make(chan struct{})
	go func() {
		hub.EmitRideStatusUpdated(RideStatusEvent{RideID: 9, NewStatus: models.RideStatusCompleted})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a slow client")
	}
}

func TestRidePayload(t *testing.T) {
	id, ok := ridePayload(map[string]interface{}{"rideId": 5})
	assert.True(t, ok)
	assert.Equal(t, uint(5), id)

	_, ok = ridePayload(map[string]interface{}{"rideId": 0})
	assert.False(t, ok)

	_, ok = ridePayload("garbage")
	assert.False(t, ok)
}
