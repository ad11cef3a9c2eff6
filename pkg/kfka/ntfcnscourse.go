package kfka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the notifications need.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

const (
	CourseCreated  = "course_created"
	CourseUpdated  = "course_updated"
	CourseDeleted  = "course_deleted"
	ItemCreated    = "item_created"
	ItemUpdated    = "item_updated"
	ItemDeleted    = "item_deleted"
	ItemsReordered = "items_reordered"
)

type NotificationCourse struct {
	CourseID    string    `json:"course_id"`
	ItemID      string    `json:"item_id,omitempty"`
	CourseName  string    `json:"course_name"`
	Item        string    `json:"item,omitempty"`
	ItemType    string    `json:"item_type,omitempty"`
	Description string    `json:"description,omitempty"`
	EventType   string    `json:"event_type"`
	Text        string    `json:"text,omitempty"`
	At          time.Time `json:"at"`
}

// SendNotif writes the notification keyed by course so that events of one
// course stay on one partition.
func (e *NotificationCourse) SendNotif(ctx context.Context, writer MessageWriter) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	msg, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(e.CourseID),
		Value:   msg,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(e.EventType)}},
	})
}
