package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWAVParseRoundTrip(t *testing.T) {
	pcm := make([]byte, 32000) // one second of 16 kHz mono LINEAR16

	wav := BuildWAV(pcm, 16000, 1)
	params, err := ParseWAVHeader(wav)

	require.NoError(t, err)
	assert.Equal(t, 16000, params.SampleRate)
	assert.Equal(t, 1, params.Channels)
	assert.Equal(t, 16, params.BitsPerSample)
	assert.Equal(t, len(pcm), params.DataBytes)
}

func TestParseWAVHeader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"too short", []byte("RIFF")},
		{"wrong magic", []byte("OggS\x00\x00\x00\x00vorbis..")},
		{"riff without fmt", append([]byte("RIFF\x00\x00\x00\x00WAVE"), []byte("data\x00\x00\x00\x00")...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWAVHeader(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestLocalTTS_SynthesizeDurationTracksWordCount(t *testing.T) {
	tts := NewLocalTTSService()

	short, err := tts.Synthesize(context.Background(), "one")
	require.NoError(t, err)
	long, err := tts.Synthesize(context.Background(), "Describe the architecture and your implementation for the project, including the main technical challenges you solved.")
	require.NoError(t, err)

	assert.Greater(t, len(long), len(short))

	params, err := ParseWAVHeader(long)
	require.NoError(t, err)
	assert.Equal(t, 16000, params.SampleRate)
	assert.Equal(t, 1, params.Channels)
}

func TestSpeechToText_DisabledReturnsEmptyTranscript(t *testing.T) {
	stt := NewSpeechToTextService(nil)

	audio := BuildWAV(make([]byte, 3200), 16000, 1)
	transcript, err := stt.Transcribe(context.Background(), audio)

	require.NoError(t, err)
	assert.Empty(t, transcript)
}

func TestSpeechToText_RejectsNonWAV(t *testing.T) {
	stt := NewSpeechToTextService(&fakeTranscriber{transcript: "hello"})

	_, err := stt.Transcribe(context.Background(), []byte("definitely not audio"))
	assert.Error(t, err)
}

func TestSpeechToText_TranscribesThroughBackend(t *testing.T) {
	stt := NewSpeechToTextService(&fakeTranscriber{transcript: "  I built the cache layer.  \n\n"})

	audio := BuildWAV(make([]byte, 3200), 16000, 1)
	transcript, err := stt.Transcribe(context.Background(), audio)

	require.NoError(t, err)
	assert.Equal(t, "I built the cache layer.", transcript)
}

func TestSpeechToText_BackendError(t *testing.T) {
	stt := NewSpeechToTextService(&fakeTranscriber{err: fmt.Errorf("stt quota exceeded")})

	audio := BuildWAV(make([]byte, 3200), 16000, 1)
	_, err := stt.Transcribe(context.Background(), audio)

	assert.Error(t, err)
}
