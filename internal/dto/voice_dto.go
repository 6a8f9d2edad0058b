package dto

// VoiceStartRequest opens a voice session scoped to one subject and thread.
type VoiceStartRequest struct {
	SubjectId   string `json:"subjectId" validate:"required,uuid"`
	ThreadId    string `json:"threadId" validate:"required,min=1"`
	SubjectName string `json:"subjectName" validate:"omitempty,min=1"`
}

// VoiceAudioFrame carries one base64 audio frame from the client.
type VoiceAudioFrame struct {
	Data     string `json:"data" validate:"required,min=1"`
	MimeType string `json:"mimeType"`
}
