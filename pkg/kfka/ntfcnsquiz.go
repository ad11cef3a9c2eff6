package kfka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	AttemptRecorded = "attempt_recorded"
	ItemCompleted   = "item_completed"
)

// NotificationQuiz reports learner activity: quiz attempts and completed items.
type NotificationQuiz struct {
	CourseID   string    `json:"course_id"`
	ItemID     string    `json:"item_id"`
	CourseName string    `json:"course_name"`
	Item       string    `json:"item,omitempty"`
	Selected   []string  `json:"selected,omitempty"`
	IsCorrect  bool      `json:"is_correct,omitempty"`
	Progress   float64   `json:"progress"`
	Event      string    `json:"event"`
	At         time.Time `json:"at"`
}

func (n *NotificationQuiz) SendNotif(ctx context.Context, writer MessageWriter) error {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	e, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(n.CourseID),
		Value:   e,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(n.Event)}},
	})
}
