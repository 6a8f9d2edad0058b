package voice

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/genai/live"
)

// liveSystemInstruction keeps the remote model silent on raw audio; it only
// speaks text explicitly tagged as an answer directive.
const liveSystemInstruction = "You are a patient teacher. Do not answer user audio directly. Wait for messages that start with 'ANSWER:' and speak that text clearly. After each answer, end with a short check-in question."

// Asker is the pipeline entry point the bridge invokes per completed
// spoken turn.
type Asker interface {
	Ask(ctx context.Context, req crag.AskRequest) (*crag.AskResponse, error)
}

// SubjectVerifier checks that the caller owns the subject before a live
// session is opened.
type SubjectVerifier interface {
	VerifyOwnership(ctx context.Context, userId, subjectId uuid.UUID) (*entity.Subject, error)
}

// Emitter delivers server-to-client events on the caller's connection.
type Emitter interface {
	Emit(event string, payload interface{}) error
}

type StartRequest struct {
	UserId      uuid.UUID
	SubjectId   uuid.UUID
	ThreadId    string
	SubjectName string
}

// Bridge binds one connection's live speech session to the ask pipeline.
// It owns the session exclusively: audio frames flow in only after ready,
// completed transcripts trigger at most one ask at a time, and every exit
// path releases the session.
type Bridge struct {
	asker    Asker
	subjects SubjectVerifier
	dialer   live.Dialer
	emitter  Emitter
	log      logger.ILogger

	liveConfig live.Config

	mu        sync.Mutex
	state     State
	session   live.Session
	inFlight  bool
	subjectId uuid.UUID
	threadId  string
	subject   string
}

func NewBridge(
	asker Asker,
	subjects SubjectVerifier,
	dialer live.Dialer,
	emitter Emitter,
	log logger.ILogger,
	liveConfig live.Config,
) *Bridge {
	return &Bridge{
		asker:      asker,
		subjects:   subjects,
		dialer:     dialer,
		emitter:    emitter,
		log:        log,
		liveConfig: liveConfig,
		state:      StateIdle,
	}
}

func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Start validates ownership, opens the live session and greets the caller.
// A closed bridge may be started again; an already open one may not.
func (b *Bridge) Start(ctx context.Context, req StartRequest) error {
	b.mu.Lock()
	if b.state == StateClosed {
		// a stopped session leaves the connection usable for a restart
		b.state = StateIdle
	}
	if err := transition(b.state, StateConnecting); err != nil {
		b.mu.Unlock()
		return cragerr.VoiceSession(err)
	}
	b.state = StateConnecting
	b.mu.Unlock()

	subject, err := b.subjects.VerifyOwnership(ctx, req.UserId, req.SubjectId)
	if err != nil {
		b.close()
		return err
	}

	subjectName := req.SubjectName
	if subjectName == "" {
		subjectName = subject.Name
	}

	cfg := b.liveConfig
	cfg.SystemInstruction = liveSystemInstruction
	session, err := b.dialer.Dial(ctx, cfg)
	if err != nil {
		b.close()
		return cragerr.VoiceSession(err)
	}

	b.mu.Lock()
	if b.state != StateConnecting {
		// closed while dialing; release the session we just opened
		b.mu.Unlock()
		session.Close()
		return cragerr.VoiceSession(fmt.Errorf("session closed during connect"))
	}
	b.state = StateReady
	b.session = session
	b.subjectId = req.SubjectId
	b.threadId = req.ThreadId
	b.subject = subjectName
	b.inFlight = false
	b.mu.Unlock()

	b.log.Info("voice.bridge", "live session ready", map[string]interface{}{
		"subject_id": req.SubjectId.String(),
		"thread_id":  req.ThreadId,
	})

	go b.pump(session)

	b.emitter.Emit("voice:ready", map[string]interface{}{})

	greeting := fmt.Sprintf("ANSWER: Hi! I'm your %s tutor. Ask me anything about your notes.", subjectName)
	if err := session.SendText(greeting); err != nil {
		b.log.Warn("voice.bridge", "greeting failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return nil
}

// HandleAudio forwards one client audio frame to the live session. Frames
// arriving before the session is ready are dropped, not buffered.
func (b *Bridge) HandleAudio(data string, mimeType string) {
	b.mu.Lock()
	if b.state != StateReady && b.state != StateActive {
		b.mu.Unlock()
		b.log.Debug("voice.bridge", "dropping audio frame before ready", map[string]interface{}{
			"state": b.state.String(),
		})
		return
	}
	if b.state == StateReady {
		b.state = StateActive
	}
	session := b.session
	b.mu.Unlock()

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		b.log.Warn("voice.bridge", "bad audio frame encoding", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := session.SendAudio(raw, mimeType); err != nil {
		b.fail(err)
	}
}

// Stop closes the session on explicit client request.
func (b *Bridge) Stop() {
	b.close()
}

// pump forwards live-session events to the client in arrival order and
// triggers one ask per completed spoken turn.
func (b *Bridge) pump(session live.Session) {
	for event := range session.Events() {
		switch event.Type {
		case live.EventInputTranscript:
			b.emitter.Emit("voice:transcript", map[string]interface{}{"text": event.Text})
		case live.EventOutputTranscript:
			b.emitter.Emit("voice:output-transcript", map[string]interface{}{"text": event.Text})
		case live.EventAudio:
			b.emitter.Emit("voice:audio", map[string]interface{}{
				"data":     base64.StdEncoding.EncodeToString(event.Audio),
				"mimeType": event.MimeType,
			})
		case live.EventInterrupted:
			b.emitter.Emit("voice:interrupted", map[string]interface{}{})
		case live.EventTurnComplete:
			b.emitter.Emit("voice:final", map[string]interface{}{})
			b.handleTurnComplete(event.Text)
		case live.EventGenerationComplete:
			b.emitter.Emit("voice:final", map[string]interface{}{})
		case live.EventError:
			b.fail(event.Err)
		case live.EventClosed:
			b.close()
			return
		}
	}
}

// handleTurnComplete runs the pipeline for one recognized question. The
// in-flight token enforces single-flight: a second completed turn while an
// ask is outstanding is rejected, never queued.
func (b *Bridge) handleTurnComplete(question string) {
	if question == "" {
		return
	}

	b.mu.Lock()
	if b.state != StateActive && b.state != StateReady {
		b.mu.Unlock()
		return
	}
	if b.inFlight {
		b.mu.Unlock()
		b.log.Warn("voice.bridge", "ask already in flight, dropping turn", map[string]interface{}{
			"question": question,
		})
		return
	}
	b.inFlight = true
	req := crag.AskRequest{
		Question:    question,
		SubjectId:   b.subjectId,
		ThreadId:    b.threadId,
		SubjectName: b.subject,
	}
	session := b.session
	b.mu.Unlock()

	go func() {
		defer func() {
			b.mu.Lock()
			b.inFlight = false
			b.mu.Unlock()
		}()

		response, err := b.asker.Ask(context.Background(), req)
		if err != nil {
			b.log.Error("voice.bridge", "ask failed for spoken turn", map[string]interface{}{
				"error": err.Error(),
			})
			b.emitter.Emit("voice:error", map[string]interface{}{"error": err.Error()})
			return
		}

		b.emitter.Emit("voice:answer", map[string]interface{}{"text": response.Answer})

		if err := session.SendText("ANSWER: " + response.Answer); err != nil {
			b.fail(err)
		}
	}()
}

// fail emits an error event and tears the session down. The connection
// stays open for a new start request.
func (b *Bridge) fail(err error) {
	b.log.Error("voice.bridge", "live session error", map[string]interface{}{
		"error": err.Error(),
	})
	b.emitter.Emit("voice:error", map[string]interface{}{"error": err.Error()})
	b.close()
}

// close releases the live session unconditionally. Idempotent and safe
// from any state.
func (b *Bridge) close() {
	b.mu.Lock()
	session := b.session
	alreadyClosed := b.state == StateClosed
	b.state = StateClosed
	b.session = nil
	b.inFlight = false
	b.mu.Unlock()

	if session != nil {
		session.Close()
	}
	if !alreadyClosed {
		b.log.Info("voice.bridge", "session closed", map[string]interface{}{})
	}
}
