package main

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteTimeout     = 10 * time.Second
)

// writeWSWithHeartbeat drains send into conn. Reports only flow while a
// search runs, so idle connections get a ping frame every interval.
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteTimeout))
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
