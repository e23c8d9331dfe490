// Package main runs a demo WebSocket client for run events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Create a small demo network
	netBody := []byte(`{
		"tenantId": "t_demo",
		"name": "ws-demo",
		"transportRate": 1,
		"elements": [
			{"id": 0, "x": 0, "y": 0, "type": "source"},
			{"id": 10, "x": 10, "y": 10, "type": "hub", "upkeep": 100, "processing": 2},
			{"id": 11, "x": 40, "y": 40, "type": "hub", "upkeep": 100, "processing": 2},
			{"id": 1000, "x": 10, "y": 0, "type": "demand", "demand": 5},
			{"id": 1001, "x": 0, "y": 10, "type": "demand", "demand": 5},
			{"id": 1002, "x": 45, "y": 45, "type": "demand", "demand": 8}
		]
	}`)
	var nw struct {
		ID string `json:"id"`
	}
	postJSON(base+"/v1/networks", netBody, &nw)
	log.Printf("network created: %s", nw.ID)

	// Run the coordinate strategy against it
	optBody := []byte(fmt.Sprintf(`{"tenantId":"t_demo","networkId":"%s","algorithm":"coordinate"}`, nw.ID))
	var run struct {
		ID     string `json:"id"`
		Result struct {
			InitialCost float64 `json:"initialCost"`
			FinalCost   float64 `json:"finalCost"`
			Passes      int     `json:"passes"`
		} `json:"result"`
	}
	postJSON(base+"/v1/optimize", optBody, &run)
	log.Printf("run %s: %.2f -> %.2f in %d passes", run.ID, run.Result.InitialCost, run.Result.FinalCost, run.Result.Passes)

	// Subscribe to run events over WebSocket
	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("localhost:%s", port), Path: "/v1/runs/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.WriteJSON(wsMessage{Type: "connection_init"})
	sub, _ := json.Marshal(map[string]string{"runId": run.ID})
	_ = conn.WriteJSON(wsMessage{Type: "subscribe", ID: "1", Payload: sub})

	deadline := time.Now().Add(10 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		log.Printf("ws <- %s %s", msg.Type, string(msg.Payload))
		if msg.Type == "complete" {
			break
		}
	}
}

func postJSON(url string, body []byte, out any) {
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "t_demo")
	req.Header.Set("X-Role", "admin")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("decode: %v", err)
	}
}
