package services

import (
	"context"
	"log"
	"strings"
)

// TextToSpeechService converts question text into spoken audio (WAV bytes).
type TextToSpeechService interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

const (
	ttsSampleRate     = 16000
	ttsSecondsPerWord = 0.45
	ttsMinSeconds     = 1.0
	ttsMaxSeconds     = 30.0
)

type localTTSService struct{}

// NewLocalTTSService returns a placeholder synthesizer used when no cloud
// voice backend is configured. It emits silent LINEAR16 WAV whose duration
// tracks the word count, so downstream audio handling stays exercisable.
func NewLocalTTSService() TextToSpeechService {
	return &localTTSService{}
}

func (s *localTTSService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := len(strings.Fields(text))
	seconds := float64(words) * ttsSecondsPerWord
	if seconds < ttsMinSeconds {
		seconds = ttsMinSeconds
	}
	if seconds > ttsMaxSeconds {
		seconds = ttsMaxSeconds
	}

	samples := int(seconds * ttsSampleRate)
	pcm := make([]byte, samples*2) // 16-bit mono silence

	log.Printf("🔊 Synthesized placeholder audio: %d words -> %.1fs", words, seconds)
	return BuildWAV(pcm, ttsSampleRate, 1), nil
}
