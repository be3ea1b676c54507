package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path"
	"strings"

	"gin-bytemarket/logger"
	"gin-bytemarket/mailer"
	"gin-bytemarket/metrics"
	"gin-bytemarket/models"
	"gin-bytemarket/storage"
)

const ReceiptSubject = "Thank you for your purchase at ByteMarket!"

type Recipient struct {
	Email string
	Name  string
}

type INotificationService interface {
	SendReceipt(ctx context.Context, to Recipient, lines []models.CartLine) error
}

type NotificationService struct {
	sender   mailer.Sender
	disk     storage.Disk
	from     string
	fromName string
}

func NewNotificationService(sender mailer.Sender, disk storage.Disk, from, fromName string) INotificationService {
	return &NotificationService{sender: sender, disk: disk, from: from, fromName: fromName}
}

// SendReceipt mails one message with every distinct purchased file attached.
// Nothing is sent for an empty purchase.
func (s *NotificationService) SendReceipt(ctx context.Context, to Recipient, lines []models.CartLine) (err error) {
	if len(lines) == 0 {
		return nil
	}
	defer func() { metrics.ReceiptsSent.WithLabelValues(metrics.Result(err)).Inc() }()

	attachments, err := s.attachments(ctx, lines)
	if err != nil {
		return err
	}

	msg := mailer.Message{
		FromEmail:   s.from,
		FromName:    s.fromName,
		ToEmail:     to.Email,
		ToName:      to.Name,
		Subject:     ReceiptSubject,
		TextPart:    receiptText(lines),
		Attachments: attachments,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send receipt to %s: %w", to.Email, err)
	}

	logger.FromCtx(ctx).Info("receipt sent", "to", to.Email, "attachments", len(attachments))
	return nil
}

func (s *NotificationService) attachments(ctx context.Context, lines []models.CartLine) ([]mailer.Attachment, error) {
	seen := make(map[string]bool)
	var out []mailer.Attachment
	for _, line := range lines {
		if line.FilePath == "" || seen[line.FilePath] {
			continue
		}
		seen[line.FilePath] = true

		data, err := s.disk.Get(ctx, line.FilePath)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", line.FilePath, err)
		}
		out = append(out, mailer.Attachment{
			Filename:      path.Base(line.FilePath),
			ContentType:   contentType(line.FilePath),
			Base64Content: base64.StdEncoding.EncodeToString(data),
		})
	}
	return out, nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func receiptText(lines []models.CartLine) string {
	var b strings.Builder
	b.WriteString("Thank you for shopping at ByteMarket.\n\nYour order:\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "  %d x %s @ $%s = $%s\n", l.Quantity, l.Name, l.Price.StringFixed(2), l.Total().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n\nYour files are attached to this email.\n", models.CartTotal(lines).StringFixed(2))
	return b.String()
}
