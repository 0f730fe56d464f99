package services

import (
	"context"
	"fmt"
	"log"
)

// SpeechToTextService turns candidate answer audio into a transcript.
type SpeechToTextService interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type speechToTextService struct {
	transcriber AudioTranscriber
}

// NewSpeechToTextService wraps an AudioTranscriber. A nil transcriber yields
// a disabled service that returns empty transcripts, so the answer flow keeps
// working without speech credentials.
func NewSpeechToTextService(transcriber AudioTranscriber) SpeechToTextService {
	return &speechToTextService{transcriber: transcriber}
}

func (s *speechToTextService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	params, err := ParseWAVHeader(audio)
	if err != nil {
		return "", fmt.Errorf("failed to read audio header: %w", err)
	}

	if s.transcriber == nil {
		log.Println("⚠️ Speech-to-text disabled, returning empty transcript")
		return "", nil
	}

	log.Printf("🎙️ Transcribing answer: %d Hz, %d channel(s), %d bytes",
		params.SampleRate, params.Channels, len(audio))

	transcript, err := s.transcriber.TranscribeAudio(ctx, audio, "audio/wav")
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	return CleanText(transcript), nil
}
