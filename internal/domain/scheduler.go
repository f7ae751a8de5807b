package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledJob is a persisted one-time job.
// ID is derived from the job name and its key payload fields, so rescheduling the same key replaces the job.
type ScheduledJob struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Payload   map[string]string `json:"payload"`
	RunAt     time.Time         `json:"run_at"`
	CreatedAt time.Time         `json:"created_at"`
}

// Matches reports whether every key/value in match is present in the payload
func (j *ScheduledJob) Matches(name string, match map[string]string) bool {
	if j.Name != name {
		return false
	}
	for k, v := range match {
		if j.Payload[k] != v {
			return false
		}
	}
	return true
}
