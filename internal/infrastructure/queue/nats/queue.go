package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/resume-classifier/internal/infrastructure/resilience"
	"github.com/nats-io/nats.go"
)

const (
	defaultQueueGroup     = "resume-workers"
	defaultHandlerTimeout = 5 * time.Minute
)

type Queue struct {
	conn           *nats.Conn
	subject        string
	queueGroup     string
	handlerTimeout time.Duration
	executor       *resilience.Executor
}

func New(url, subject string) (*Queue, error) {
	return NewWithOptions(url, subject, Options{})
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	QueueGroup           string
	HandlerTimeout       time.Duration
	ResilienceExecutor   *resilience.Executor
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, errors.New("nats subject is required")
	}
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("resume-classifier"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return newQueue(conn, subject, options), nil
}

func newQueue(conn *nats.Conn, subject string, options Options) *Queue {
	queueGroup := options.QueueGroup
	if queueGroup == "" {
		queueGroup = defaultQueueGroup
	}
	handlerTimeout := options.HandlerTimeout
	if handlerTimeout <= 0 {
		handlerTimeout = defaultHandlerTimeout
	}
	return &Queue{
		conn:           conn,
		subject:        subject,
		queueGroup:     queueGroup,
		handlerTimeout: handlerTimeout,
		executor:       options.ResilienceExecutor,
	}
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishResumeUploaded(ctx context.Context, resumeID string) error {
	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.subject, []byte(resumeID)); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	var err error
	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// SubscribeResumeUploaded blocks until ctx is done, then drains the subscription.
func (q *Queue) SubscribeResumeUploaded(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, q.queueGroup, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		resumeID := strings.TrimSpace(string(msg.Data))
		if resumeID == "" {
			slog.Warn("nats_empty_message", "subject", msg.Subject)
			return
		}

		handlerCtx, cancel := context.WithTimeout(ctx, q.handlerTimeout)
		defer cancel()
		if err := handler(handlerCtx, resumeID); err != nil {
			slog.Error("worker_handler_failed", "resume_id", resumeID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
