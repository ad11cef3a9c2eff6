package kfka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
	sent chan struct{}
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{sent: make(chan struct{}, 10)}
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	w.msgs = append(w.msgs, msgs...)
	err := w.err
	w.mu.Unlock()
	w.sent <- struct{}{}
	return err
}

func (w *recordingWriter) fail(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}

func (w *recordingWriter) wait(t *testing.T) {
	t.Helper()
	select {
	case <-w.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("no message written")
	}
}

func TestCourseNotification(t *testing.T) {
	w := newRecordingWriter()
	n := NotificationCourse{CourseID: "c1", CourseName: "Go basics", ItemID: "i1", EventType: ItemCreated}
	require.NoError(t, n.SendNotif(context.Background(), w))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "c1", string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte(ItemCreated)}}, msg.Headers)

	var got NotificationCourse
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "i1", got.ItemID)
	assert.Equal(t, ItemCreated, got.EventType)
	assert.False(t, got.At.IsZero())
}

func TestQuizNotification(t *testing.T) {
	w := newRecordingWriter()
	n := NotificationQuiz{CourseID: "c1", ItemID: "q1", Selected: []string{"a"}, IsCorrect: true, Progress: 50, Event: AttemptRecorded}
	require.NoError(t, n.SendNotif(context.Background(), w))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, true, got["is_correct"])
	assert.Equal(t, 50.0, got["progress"])
	assert.Equal(t, []any{"a"}, got["selected"])
}

func TestPublisherSendsInBackground(t *testing.T) {
	courses, quiz := newRecordingWriter(), newRecordingWriter()
	p := NewPublisher(courses, quiz, zerolog.Nop())

	p.Course(NotificationCourse{CourseID: "c1", EventType: CourseCreated})
	courses.wait(t)
	p.Quiz(NotificationQuiz{CourseID: "c1", Event: AttemptRecorded})
	quiz.wait(t)

	quiz.fail(errors.New("broker down"))
	p.Quiz(NotificationQuiz{CourseID: "c1", Event: AttemptRecorded})
	quiz.wait(t)

	assert.NoError(t, p.Close())
}

func TestNilPublisherIsSilent(t *testing.T) {
	var p *Publisher
	p.Course(NotificationCourse{CourseID: "c1"})
	p.Quiz(NotificationQuiz{CourseID: "c1"})
	assert.NoError(t, p.Close())
}
