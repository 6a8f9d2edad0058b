package live

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

// GeminiDialer opens Gemini Live sessions over a raw websocket.
type GeminiDialer struct{}

func NewGeminiDialer() Dialer {
	return &GeminiDialer{}
}

// --- wire types for the BidiGenerateContent protocol ---

type liveTextPart struct {
	Text string `json:"text"`
}

type liveSetupMessage struct {
	Setup liveSetup `json:"setup"`
}

type liveSetup struct {
	Model                    string                `json:"model"`
	GenerationConfig         liveGenerationConfig  `json:"generationConfig"`
	SystemInstruction        *liveContent          `json:"systemInstruction,omitempty"`
	InputAudioTranscription  struct{}              `json:"inputAudioTranscription"`
	OutputAudioTranscription struct{}              `json:"outputAudioTranscription"`
}

type liveGenerationConfig struct {
	ResponseModalities []string          `json:"responseModalities"`
	SpeechConfig       *liveSpeechConfig `json:"speechConfig,omitempty"`
}

type liveSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type liveContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []liveTextPart `json:"parts"`
}

type liveRealtimeInputMessage struct {
	RealtimeInput liveRealtimeInput `json:"realtimeInput"`
}

type liveRealtimeInput struct {
	Audio          *liveAudioBlob `json:"audio,omitempty"`
	AudioStreamEnd bool           `json:"audioStreamEnd,omitempty"`
}

type liveAudioBlob struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type liveClientContentMessage struct {
	ClientContent liveClientContent `json:"clientContent"`
}

type liveClientContent struct {
	Turns        []liveContent `json:"turns"`
	TurnComplete bool          `json:"turnComplete"`
}

type liveServerMessage struct {
	SetupComplete *struct{} `json:"setupComplete,omitempty"`
	ServerContent *struct {
		ModelTurn *struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"modelTurn,omitempty"`
		InputTranscription *struct {
			Text string `json:"text"`
		} `json:"inputTranscription,omitempty"`
		OutputTranscription *struct {
			Text string `json:"text"`
		} `json:"outputTranscription,omitempty"`
		Interrupted        bool `json:"interrupted,omitempty"`
		TurnComplete       bool `json:"turnComplete,omitempty"`
		GenerationComplete bool `json:"generationComplete,omitempty"`
	} `json:"serverContent,omitempty"`
}

// geminiSession is one open live session. Writes are serialized with a
// mutex; a single listener goroutine owns all reads and the event channel.
type geminiSession struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	events chan Event

	// partial input transcript accumulated across server messages until
	// the turn completes
	inputTranscript strings.Builder
}

func (d *GeminiDialer) Dial(ctx context.Context, cfg Config) (Session, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash-native-audio-preview-12-2025"
	}
	voice := cfg.Voice
	if voice == "" {
		voice = "Kore"
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	url := fmt.Sprintf("%s?key=%s", endpoint, cfg.APIKey)
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("live session dial: %w", err)
	}

	setup := liveSetupMessage{
		Setup: liveSetup{
			Model: fmt.Sprintf("models/%s", model),
			GenerationConfig: liveGenerationConfig{
				ResponseModalities: []string{"AUDIO"},
				SpeechConfig:       &liveSpeechConfig{},
			},
		},
	}
	setup.Setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voice
	if cfg.SystemInstruction != "" {
		setup.Setup.SystemInstruction = &liveContent{
			Parts: []liveTextPart{{Text: cfg.SystemInstruction}},
		}
	}

	if err := conn.WriteJSON(setup); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live session setup: %w", err)
	}

	// the first server message must acknowledge setup
	var ack liveServerMessage
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live session setup ack: %w", err)
	}
	if ack.SetupComplete == nil {
		conn.Close()
		return nil, fmt.Errorf("live session: expected setupComplete, got other message")
	}

	s := &geminiSession{
		conn:   conn,
		events: make(chan Event, 32),
	}
	go s.listen()

	return s, nil
}

func (s *geminiSession) listen() {
	defer close(s.events)

	for {
		var msg liveServerMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				s.events <- Event{Type: EventError, Err: err}
			}
			s.events <- Event{Type: EventClosed}
			return
		}

		sc := msg.ServerContent
		if sc == nil {
			continue
		}

		if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
			s.inputTranscript.WriteString(sc.InputTranscription.Text)
			s.events <- Event{Type: EventInputTranscript, Text: sc.InputTranscription.Text}
		}
		if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
			s.events <- Event{Type: EventOutputTranscript, Text: sc.OutputTranscription.Text}
		}
		if sc.ModelTurn != nil {
			for _, part := range sc.ModelTurn.Parts {
				if part.InlineData == nil || part.InlineData.Data == "" {
					continue
				}
				audio, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					continue
				}
				mimeType := part.InlineData.MimeType
				if mimeType == "" {
					mimeType = "audio/pcm;rate=24000"
				}
				s.events <- Event{Type: EventAudio, Audio: audio, MimeType: mimeType}
			}
		}
		if sc.Interrupted {
			s.events <- Event{Type: EventInterrupted}
		}
		if sc.TurnComplete {
			turnText := strings.TrimSpace(s.inputTranscript.String())
			s.inputTranscript.Reset()
			s.events <- Event{Type: EventTurnComplete, Text: turnText}
		}
		if sc.GenerationComplete {
			s.events <- Event{Type: EventGenerationComplete}
		}
	}
}

func (s *geminiSession) Events() <-chan Event {
	return s.events
}

func (s *geminiSession) SendAudio(data []byte, mimeType string) error {
	if mimeType == "" {
		mimeType = "audio/pcm;rate=16000"
	}
	msg := liveRealtimeInputMessage{
		RealtimeInput: liveRealtimeInput{
			Audio: &liveAudioBlob{
				Data:     base64.StdEncoding.EncodeToString(data),
				MimeType: mimeType,
			},
		},
	}
	return s.writeJSON(msg)
}

func (s *geminiSession) SendText(text string) error {
	msg := liveClientContentMessage{
		ClientContent: liveClientContent{
			Turns: []liveContent{
				{Role: "user", Parts: []liveTextPart{{Text: text}}},
			},
			TurnComplete: true,
		},
	}
	return s.writeJSON(msg)
}

func (s *geminiSession) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("live session is closed")
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close signals end of audio and tears down the connection. Idempotent.
func (s *geminiSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	end := liveRealtimeInputMessage{
		RealtimeInput: liveRealtimeInput{AudioStreamEnd: true},
	}
	if payload, err := json.Marshal(end); err == nil {
		_ = s.conn.WriteMessage(websocket.TextMessage, payload)
	}
	return s.conn.Close()
}
