package socket

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/service"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/voice"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/genai/live"
)

// Handler builds clients for incoming websocket connections. Each
// connection gets its own voice bridge; connections share no state beyond
// the services.
type Handler struct {
	askService service.IAskService
	access     service.IAccessVerifier
	dialer     live.Dialer
	liveConfig live.Config
	log        logger.ILogger
}

func NewHandler(
	askService service.IAskService,
	access service.IAccessVerifier,
	dialer live.Dialer,
	liveConfig live.Config,
	log logger.ILogger,
) *Handler {
	return &Handler{
		askService: askService,
		access:     access,
		dialer:     dialer,
		liveConfig: liveConfig,
		log:        log,
	}
}

// voiceAsker binds the per-connection user identity onto the ask pipeline
// for spoken turns.
type voiceAsker struct {
	askService service.IAskService
	userId     uuid.UUID
}

func (a *voiceAsker) Ask(ctx context.Context, req crag.AskRequest) (*crag.AskResponse, error) {
	return a.askService.AskRaw(ctx, a.userId, req)
}

// ServeWs runs one connection to completion. The read pump owns the caller
// goroutine, per fiber's websocket contract.
func (h *Handler) ServeWs(conn *websocket.Conn, userId uuid.UUID) {
	client := &Client{
		conn:       conn,
		userId:     userId,
		send:       make(chan []byte, 256),
		askService: h.askService,
		log:        h.log,
	}

	client.bridge = voice.NewBridge(
		&voiceAsker{askService: h.askService, userId: userId},
		h.access,
		h.dialer,
		client,
		h.log,
		h.liveConfig,
	)

	h.log.Info("socket", "client connected", map[string]interface{}{
		"user_id": userId.String(),
	})

	go client.writePump()
	client.readPump()

	h.log.Info("socket", "client disconnected", map[string]interface{}{
		"user_id": userId.String(),
	})
}
