package models

// Question is one interview question with its ideal-answer rubric. Immutable
// once handed to the scorer; ids are unique within a generated set (q1..qn).
type Question struct {
	ID    string `json:"id"`
	Q     string `json:"q"`
	Ideal string `json:"ideal"`

	// AudioKey is the artifact-store key of the synthesized question audio,
	// empty when synthesis was skipped or failed.
	AudioKey string `json:"audio_key,omitempty"`
}
