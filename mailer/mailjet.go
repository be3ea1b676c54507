package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mailjet/mailjet-apiv3-go/v4"
)

// MailjetSender sends through the Mailjet Send API v3.1.
type MailjetSender struct {
	client *mailjet.Client
}

// NewMailjetSender builds a sender whose calls give up after timeout.
// The library default is http.DefaultClient, which never times out.
func NewMailjetSender(publicKey, secretKey string, timeout time.Duration) *MailjetSender {
	client := mailjet.NewMailjetClient(publicKey, secretKey)
	client.SetClient(&http.Client{Timeout: timeout})
	return &MailjetSender{client: client}
}

func (s *MailjetSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	messages := buildMailjetMessages(msg)
	if _, err := s.client.SendMailV31(&messages, mailjet.WithContext(ctx)); err != nil {
		return fmt.Errorf("mailer: mailjet send to %s: %w", msg.ToEmail, err)
	}
	return nil
}

func buildMailjetMessages(msg Message) mailjet.MessagesV31 {
	toName := msg.ToName
	if toName == "" {
		toName = msg.ToEmail
	}

	info := mailjet.InfoMessagesV31{
		From: &mailjet.RecipientV31{
			Email: msg.FromEmail,
			Name:  msg.FromName,
		},
		To: &mailjet.RecipientsV31{
			mailjet.RecipientV31{
				Email: msg.ToEmail,
				Name:  toName,
			},
		},
		Subject:  msg.Subject,
		TextPart: msg.TextPart,
	}

	if len(msg.Attachments) > 0 {
		attachments := make(mailjet.AttachmentsV31, 0, len(msg.Attachments))
		for _, a := range msg.Attachments {
			attachments = append(attachments, mailjet.AttachmentV31{
				ContentType:   a.ContentType,
				Filename:      a.Filename,
				Base64Content: a.Base64Content,
			})
		}
		info.Attachments = &attachments
	}

	return mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{info}}
}
