package voice

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/genai/live"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeSession struct {
	mu     sync.Mutex
	audio  [][]byte
	texts  []string
	closed bool
	events chan live.Event
}

func newFakeSession() *fakeSession {
	return &fakeSession{events: make(chan live.Event, 16)}
}

func (s *fakeSession) SendAudio(data []byte, mimeType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = append(s.audio, data)
	return nil
}

func (s *fakeSession) SendText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func (s *fakeSession) Events() <-chan live.Event {
	return s.events
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

func (s *fakeSession) sentTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *fakeSession) audioFrames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.audio...)
}

type fakeDialer struct {
	session *fakeSession
	gotCfg  live.Config
}

func (d *fakeDialer) Dial(ctx context.Context, cfg live.Config) (live.Session, error) {
	d.gotCfg = cfg
	return d.session, nil
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyOwnership(ctx context.Context, userId, subjectId uuid.UUID) (*entity.Subject, error) {
	return &entity.Subject{Id: subjectId, Name: "Biology"}, nil
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEmitter) Emit(event string, payload interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

type blockingAsker struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (a *blockingAsker) Ask(ctx context.Context, req crag.AskRequest) (*crag.AskResponse, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.release != nil {
		<-a.release
	}
	return &crag.AskResponse{Answer: "Osmosis is passive water transport.", Confidence: "High"}, nil
}

func (a *blockingAsker) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func startRequest() StartRequest {
	return StartRequest{
		UserId:    uuid.New(),
		SubjectId: uuid.New(),
		ThreadId:  "t1",
	}
}

func newTestBridge(asker Asker, session *fakeSession, emitter Emitter) *Bridge {
	return NewBridge(asker, fakeVerifier{}, &fakeDialer{session: session}, emitter, nopLogger{}, live.Config{})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestStartGreetsAndBecomesReady(t *testing.T) {
	session := newFakeSession()
	emitter := &recordingEmitter{}
	b := newTestBridge(&blockingAsker{}, session, emitter)

	require.NoError(t, b.Start(context.Background(), startRequest()))

	assert.Equal(t, StateReady, b.State())
	assert.Contains(t, emitter.names(), "voice:ready")
	texts := session.sentTexts()
	require.Len(t, texts, 1)
	assert.Equal(t, "ANSWER: Hi! I'm your Biology tutor. Ask me anything about your notes.", texts[0])

	b.Stop()
}

func TestStartTwiceRejected(t *testing.T) {
	session := newFakeSession()
	b := newTestBridge(&blockingAsker{}, session, &recordingEmitter{})

	require.NoError(t, b.Start(context.Background(), startRequest()))
	require.Error(t, b.Start(context.Background(), startRequest()))

	b.Stop()
}

func TestAudioDroppedBeforeReadyForwardedAfter(t *testing.T) {
	session := newFakeSession()
	b := newTestBridge(&blockingAsker{}, session, &recordingEmitter{})

	frame := base64.StdEncoding.EncodeToString([]byte("pcm-bytes"))

	// before start: dropped without error
	b.HandleAudio(frame, "audio/pcm")
	assert.Empty(t, session.audioFrames())

	require.NoError(t, b.Start(context.Background(), startRequest()))

	b.HandleAudio(frame, "audio/pcm")
	frames := session.audioFrames()
	require.Len(t, frames, 1)
	assert.Equal(t, []byte("pcm-bytes"), frames[0])
	assert.Equal(t, StateActive, b.State())

	b.Stop()
}

func TestTurnCompleteRunsSingleFlight(t *testing.T) {
	session := newFakeSession()
	emitter := &recordingEmitter{}
	asker := &blockingAsker{release: make(chan struct{})}
	b := newTestBridge(asker, session, emitter)

	require.NoError(t, b.Start(context.Background(), startRequest()))

	session.events <- live.Event{Type: live.EventTurnComplete, Text: "What is osmosis?"}
	waitFor(t, func() bool { return asker.callCount() == 1 })

	// second completed turn while the first ask is outstanding is dropped
	session.events <- live.Event{Type: live.EventTurnComplete, Text: "And diffusion?"}
	waitFor(t, func() bool {
		names := emitter.names()
		count := 0
		for _, n := range names {
			if n == "voice:final" {
				count++
			}
		}
		return count == 2
	})
	assert.Equal(t, 1, asker.callCount())

	close(asker.release)
	waitFor(t, func() bool {
		for _, text := range session.sentTexts() {
			if text == "ANSWER: Osmosis is passive water transport." {
				return true
			}
		}
		return false
	})
	assert.Contains(t, emitter.names(), "voice:answer")

	b.Stop()
}

func TestEmptyTurnIgnored(t *testing.T) {
	session := newFakeSession()
	asker := &blockingAsker{}
	b := newTestBridge(asker, session, &recordingEmitter{})

	require.NoError(t, b.Start(context.Background(), startRequest()))

	session.events <- live.Event{Type: live.EventTurnComplete, Text: ""}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, asker.callCount())

	b.Stop()
}

func TestSessionErrorClosesButAllowsRestart(t *testing.T) {
	session := newFakeSession()
	emitter := &recordingEmitter{}
	b := newTestBridge(&blockingAsker{}, session, emitter)

	require.NoError(t, b.Start(context.Background(), startRequest()))

	session.events <- live.Event{Type: live.EventError, Err: assert.AnError}
	waitFor(t, func() bool { return b.State() == StateClosed })
	assert.Contains(t, emitter.names(), "voice:error")

	// the connection survives; a new start opens a fresh session
	restarted := newFakeSession()
	b.dialer = &fakeDialer{session: restarted}
	require.NoError(t, b.Start(context.Background(), startRequest()))
	assert.Equal(t, StateReady, b.State())

	b.Stop()
}

func TestStopIsIdempotent(t *testing.T) {
	session := newFakeSession()
	b := newTestBridge(&blockingAsker{}, session, &recordingEmitter{})

	require.NoError(t, b.Start(context.Background(), startRequest()))
	b.Stop()
	b.Stop()
	assert.Equal(t, StateClosed, b.State())
}

func TestDialedWithSystemInstruction(t *testing.T) {
	session := newFakeSession()
	dialer := &fakeDialer{session: session}
	b := NewBridge(&blockingAsker{}, fakeVerifier{}, dialer, &recordingEmitter{}, nopLogger{}, live.Config{Model: "m", Voice: "v"})

	require.NoError(t, b.Start(context.Background(), startRequest()))

	assert.Equal(t, "m", dialer.gotCfg.Model)
	assert.NotEmpty(t, dialer.gotCfg.SystemInstruction)

	b.Stop()
}
