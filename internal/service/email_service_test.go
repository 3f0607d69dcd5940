package service

import (
	"context"
	"testing"

	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enquiry() dto.EmailRequest {
	return dto.EmailRequest{
		Type:    dto.EmailTypeQuoteRequest,
		Name:    "Jane",
		Email:   "jane@acme.io",
		Company: "Acme",
		Service: "Email Migration",
		Message: "We have 40 mailboxes on cPanel.",
	}
}

func TestSendEnquiry(t *testing.T) {
	mail := newFakeMailer()
	s := CreateEmailService(mail, testConfig())

	require.NoError(t, s.SendEnquiry(context.Background(), enquiry()))
	require.Len(t, mail.sent, 2)

	admin := mail.sent[0]
	assert.Equal(t, "admin@mechinweb.com", admin.To)
	assert.Equal(t, "jane@acme.io", admin.ReplyTo)
	assert.Equal(t, "Quote request: New website enquiry", admin.Subject)
	assert.Contains(t, admin.Body, "Company: Acme")

	reply := mail.sent[1]
	assert.Equal(t, "jane@acme.io", reply.To)
	assert.Contains(t, reply.Body, "your quote request for Email Migration")
}

func TestSendEnquiry_ReportsFailure(t *testing.T) {
	mail := newFakeMailer()
	mail.failFor["jane@acme.io"] = errs.ErrEmailDelivery
	s := CreateEmailService(mail, testConfig())

	err := s.SendEnquiry(context.Background(), enquiry())
	assert.ErrorIs(t, err, errs.ErrEmailDelivery)
}
