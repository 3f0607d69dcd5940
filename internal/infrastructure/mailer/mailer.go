package mailer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/gomail.v2"
)

const maxAttempts = 2

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	To          string
	ToName      string
	ReplyTo     string
	Subject     string
	Body        string
	Attachments []Attachment
}

type dialAndSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	dialer    dialAndSender
	from      string
	fromName  string
	baseDelay time.Duration
}

func CreateMailer(conf config.SMTPConfig) *Mailer {
	baseDelay := conf.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return &Mailer{
		dialer:    gomail.NewDialer(conf.Host, conf.Port, conf.Username, conf.Password),
		from:      conf.FromAddress,
		fromName:  conf.FromName,
		baseDelay: baseDelay,
	}
}

func (m *Mailer) buildMessage(msg Message) *gomail.Message {
	message := gomail.NewMessage()
	message.SetAddressHeader("From", m.from, m.fromName)
	if msg.ToName != "" {
		message.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		message.SetHeader("To", msg.To)
	}
	if msg.ReplyTo != "" {
		message.SetHeader("Reply-To", msg.ReplyTo)
	}
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", msg.Body)

	for _, attachment := range msg.Attachments {
		content := attachment.Content
		message.Attach(attachment.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	return message
}

// Send delivers one message, retrying once after the base delay.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("%w: recipient is required", errs.ErrEmailDelivery)
	}

	message := m.buildMessage(msg)

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = m.dialer.DialAndSend(message)
		if err == nil {
			return nil
		}

		log.Error().Err(err).Str("component", "Mailer").Str("to", msg.To).Int("attempt", attempt).Msg("failed to send email")

		if attempt == maxAttempts {
			break
		}

		delay := m.baseDelay * time.Duration(1<<(attempt-1))
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", errs.ErrEmailDelivery, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w: %v", errs.ErrEmailDelivery, err)
}

// SendAll sends the messages concurrently. It waits for every send and
// returns the first failure.
func (m *Mailer) SendAll(ctx context.Context, msgs ...Message) error {
	var g errgroup.Group
	for _, msg := range msgs {
		msg := msg
		g.Go(func() error {
			return m.Send(ctx, msg)
		})
	}

	return g.Wait()
}
