package ws

import (
	"encoding/json"

	"github.com/google/uuid"
)

const EventScreeningProgress = "screening_progress"

type ProgressEvent struct {
	Type         string     `json:"type"`
	JobID        uuid.UUID  `json:"job_id"`
	FileName     string     `json:"file_name"`
	Status       string     `json:"status"`
	Processed    int        `json:"processed"`
	Total        int        `json:"total"`
	SuccessCount int        `json:"success_count"`
	Error        string     `json:"error,omitempty"`
	CandidateID  *uuid.UUID `json:"candidate_id,omitempty"`
}

// Notifier pushes screening progress to the HR user running the batch.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) ScreeningProgress(userID uuid.UUID, evt ProgressEvent) {
	if n == nil || n.hub == nil {
		return
	}
	evt.Type = EventScreeningProgress
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.SendTo(userID, b)
}
