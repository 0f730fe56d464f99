package models

import "time"

// Artifact is one object in the durable store, addressed by its namespaced key
// (e.g. cand-1a2b3c4d/reports/report.json).
type Artifact struct {
	Key         string    `gorm:"type:text;primary_key" json:"key"`
	ContentType string    `gorm:"type:text" json:"content_type"`
	Data        []byte    `gorm:"type:bytea" json:"-"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Artifact) TableName() string {
	return "artifacts"
}
