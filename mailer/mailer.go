// Package mailer delivers transactional email through an external provider.
package mailer

import (
	"context"
	"log/slog"

	"gin-bytemarket/logger"
)

// Attachment carries file content already base64 encoded.
type Attachment struct {
	Filename      string
	ContentType   string
	Base64Content string
}

type Message struct {
	FromEmail   string
	FromName    string
	ToEmail     string
	ToName      string
	Subject     string
	TextPart    string
	Attachments []Attachment
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only logs the message. It is used when no provider is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}
	logger.FromCtx(ctx).Info("mail not sent: no provider configured",
		slog.String("to", msg.ToEmail),
		slog.String("subject", msg.Subject),
		slog.Any("attachments", names),
	)
	return nil
}
