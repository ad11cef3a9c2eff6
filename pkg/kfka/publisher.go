package kfka

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Publisher sends notifications in the background. Failures are logged and
// never reach the caller. A nil *Publisher drops everything.
type Publisher struct {
	courses MessageWriter
	quiz    MessageWriter
	timeout time.Duration
	log     zerolog.Logger
}

func NewPublisher(courses, quiz MessageWriter, log zerolog.Logger) *Publisher {
	return &Publisher{
		courses: courses,
		quiz:    quiz,
		timeout: 10 * time.Second,
		log:     log.With().Str("component", "kafka").Logger(),
	}
}

// NewWriter builds the writer for one topic, keyed messages hashed to partitions.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (p *Publisher) Course(n NotificationCourse) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := n.SendNotif(ctx, p.courses); err != nil {
			p.log.Error().Err(err).Str("event_type", n.EventType).Str("course_id", n.CourseID).Msg("course notification not sent")
		}
	}()
}

func (p *Publisher) Quiz(n NotificationQuiz) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := n.SendNotif(ctx, p.quiz); err != nil {
			p.log.Error().Err(err).Str("event", n.Event).Str("course_id", n.CourseID).Msg("quiz notification not sent")
		}
	}()
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, w := range []MessageWriter{p.courses, p.quiz} {
		if c, ok := w.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
