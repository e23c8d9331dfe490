package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket bridge for run events. Clients send subscribe/complete messages
// keyed by run id and receive the same events the SSE stream carries:
// completed runs replay their stored pass log, unknown run ids stream live.

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsSubscribePayload struct {
	RunID string `json:"runId"`
}

// RunEventsWSHandler handles /v1/runs/ws
func (s *Server) RunEventsWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	_, tenant := s.withTenant(r)

	type sub struct {
		topic string
		ch    chan SSEEvent
	}
	subs := map[string]sub{}

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	// writes come from the read loop, the ping ticker, and fanout goroutines
	var wmu sync.Mutex
	write := func(v any) error {
		wmu.Lock()
		defer wmu.Unlock()
		return conn.WriteJSON(v)
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "connection_init":
			_ = write(wsMessage{Type: "connection_ack"})
			go func() {
				ticker := time.NewTicker(20 * time.Second)
				defer ticker.Stop()
				for range ticker.C {
					if err := write(wsMessage{Type: "ping"}); err != nil {
						return
					}
				}
			}()
		case "ping":
			_ = write(wsMessage{Type: "pong"})
		case "subscribe":
			var pl wsSubscribePayload
			_ = json.Unmarshal(msg.Payload, &pl)
			if pl.RunID == "" {
				_ = write(wsMessage{Type: "error", ID: msg.ID, Payload: []byte(`{"message":"runId required"}`)})
				_ = write(wsMessage{Type: "complete", ID: msg.ID})
				continue
			}
			if run, err := s.Store.GetRun(r.Context(), tenant, pl.RunID); err == nil {
				// completed run: replay the stored log and finish the subscription
				for _, pc := range run.Result.PassLog {
					payload, _ := json.Marshal(map[string]any{"type": "run.pass", "data": map[string]any{
						"runId": pl.RunID, "pass": pc.Pass, "cost": pc.Cost,
					}})
					_ = write(wsMessage{Type: "next", ID: msg.ID, Payload: payload})
				}
				payload, _ := json.Marshal(map[string]any{"type": "run.completed", "data": map[string]any{
					"runId": pl.RunID, "finalCost": run.Result.FinalCost,
				}})
				_ = write(wsMessage{Type: "next", ID: msg.ID, Payload: payload})
				_ = write(wsMessage{Type: "complete", ID: msg.ID})
				continue
			}
			topic := runTopic(tenant, pl.RunID)
			ch := s.Broker.Subscribe(topic)
			subs[msg.ID] = sub{topic: topic, ch: ch}
			go func(id string, c chan SSEEvent) {
				for evt := range c {
					payload, _ := json.Marshal(map[string]any{"type": evt.Type, "data": evt.Data})
					_ = write(wsMessage{Type: "next", ID: id, Payload: payload})
				}
				_ = write(wsMessage{Type: "complete", ID: id})
			}(msg.ID, ch)
		case "complete":
			if s0, ok := subs[msg.ID]; ok {
				s.Broker.Unsubscribe(s0.topic, s0.ch)
				delete(subs, msg.ID)
			}
		default:
			// ignore
		}
	}
	for id, s0 := range subs {
		s.Broker.Unsubscribe(s0.topic, s0.ch)
		delete(subs, id)
	}
}
