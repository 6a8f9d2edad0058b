package socket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/dto"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/serverutils"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/service"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/voice"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // audio frames are base64, allow 1MB
)

// Envelope is the wire frame for every socket message, both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client is one authenticated websocket connection. Incoming events are
// processed in arrival order by the read pump; outgoing events funnel
// through the buffered send channel so the bridge and the ask stream never
// write to the connection directly.
type Client struct {
	conn   *websocket.Conn
	userId uuid.UUID
	send   chan []byte

	askService service.IAskService
	bridge     *voice.Bridge
	log        logger.ILogger
}

// Emit implements voice.Emitter. A full send buffer drops the event rather
// than blocking the bridge's event pump.
func (c *Client) Emit(event string, payload interface{}) error {
	data, err := json.Marshal(Envelope{Event: event, Payload: mustMarshal(payload)})
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.log.Warn("socket", "send buffer full, dropping event", map[string]interface{}{
			"event":   event,
			"user_id": c.userId.String(),
		})
		return nil
	}
}

func mustMarshal(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

func (c *Client) readPump() {
	defer func() {
		// every exit path releases the live session
		c.bridge.Stop()
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("socket", "unexpected close", map[string]interface{}{
					"user_id": c.userId.String(),
					"error":   err.Error(),
				})
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.Emit("ask:error", map[string]interface{}{"error": "Invalid message frame"})
			continue
		}

		c.dispatch(envelope)
	}
}

func (c *Client) dispatch(envelope Envelope) {
	switch envelope.Event {
	case "ask":
		c.handleAsk(envelope.Payload)
	case "voice:start":
		c.handleVoiceStart(envelope.Payload)
	case "voice:audio":
		c.handleVoiceAudio(envelope.Payload)
	case "voice:stop":
		c.bridge.Stop()
	default:
		c.log.Debug("socket", "ignoring unknown event", map[string]interface{}{
			"event": envelope.Event,
		})
	}
}

func (c *Client) handleAsk(payload json.RawMessage) {
	var req dto.AskSocketRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		c.Emit("ask:error", map[string]interface{}{"error": "Invalid request"})
		return
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		c.Emit("ask:error", map[string]interface{}{"requestId": req.RequestId, "error": "Invalid request"})
		return
	}

	stream, err := c.askService.AskStream(context.Background(), c.userId, &req)
	if err != nil {
		c.Emit("ask:error", map[string]interface{}{"requestId": req.RequestId, "error": err.Error()})
		return
	}

	for event := range stream {
		switch event.Type {
		case crag.StreamEventChunk:
			c.Emit("ask:chunk", map[string]interface{}{
				"requestId": req.RequestId,
				"delta":     event.Delta,
			})
		case crag.StreamEventFinal:
			c.Emit("ask:final", map[string]interface{}{
				"requestId": req.RequestId,
				"response":  event.Response,
			})
		case crag.StreamEventError:
			c.Emit("ask:error", map[string]interface{}{
				"requestId": req.RequestId,
				"error":     event.Err.Error(),
			})
		}
	}
}

func (c *Client) handleVoiceStart(payload json.RawMessage) {
	var req dto.VoiceStartRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		c.Emit("voice:error", map[string]interface{}{"error": "Invalid request"})
		return
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		c.Emit("voice:error", map[string]interface{}{"error": "Invalid request"})
		return
	}

	subjectId, err := uuid.Parse(req.SubjectId)
	if err != nil {
		c.Emit("voice:error", map[string]interface{}{"error": "Invalid request"})
		return
	}

	err = c.bridge.Start(context.Background(), voice.StartRequest{
		UserId:      c.userId,
		SubjectId:   subjectId,
		ThreadId:    req.ThreadId,
		SubjectName: req.SubjectName,
	})
	if err != nil {
		c.log.Warn("socket", "voice start failed", map[string]interface{}{
			"user_id": c.userId.String(),
			"error":   err.Error(),
		})
		c.Emit("voice:error", map[string]interface{}{"error": err.Error()})
	}
}

func (c *Client) handleVoiceAudio(payload json.RawMessage) {
	var frame dto.VoiceAudioFrame
	if err := json.Unmarshal(payload, &frame); err != nil || frame.Data == "" {
		return
	}
	c.bridge.HandleAudio(frame.Data, frame.MimeType)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
