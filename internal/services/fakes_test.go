package services

import (
	"context"
	"fmt"
)

// fakeTextGenerator returns a canned response or error for every call and
// remembers the last prompt it was given.
type fakeTextGenerator struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeTextGenerator) GenerateText(ctx context.Context, model, prompt string, maxTokens int32, temperature float32) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// fakeTranscriber returns a canned transcript.
type fakeTranscriber struct {
	transcript string
	err        error
}

func (f *fakeTranscriber) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

// memArtifactStore keeps artifacts in a map, mimicking the durable store.
type memArtifactStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
	failPuts     bool
}

func newMemArtifactStore() *memArtifactStore {
	return &memArtifactStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (s *memArtifactStore) PutBytes(key string, data []byte, contentType string) (string, error) {
	if s.failPuts {
		return "", fmt.Errorf("store unavailable")
	}
	s.objects[key] = data
	s.contentTypes[key] = contentType
	return "mem://" + key, nil
}

func (s *memArtifactStore) PutText(key string, text string) (string, error) {
	return s.PutBytes(key, []byte(text), "text/plain; charset=utf-8")
}

func (s *memArtifactStore) PutJSON(key string, v interface{}) (string, error) {
	return s.PutBytes(key, []byte(fmt.Sprintf("%v", v)), "application/json")
}

func (s *memArtifactStore) Get(key string) ([]byte, string, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("artifact not found: %s", key)
	}
	return data, s.contentTypes[key], nil
}

func (s *memArtifactStore) Exists(key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}
