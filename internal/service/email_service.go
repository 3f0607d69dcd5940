package service

import (
	"context"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/internal/dto"
)

type EmailServiceImpl struct {
	mailer Mailer
	config *config.Config
}

func CreateEmailService(mailer Mailer, config *config.Config) EmailService {
	return &EmailServiceImpl{mailer: mailer, config: config}
}

// SendEnquiry notifies the admin inbox and sends the visitor an automatic
// reply. Both are sent together; a failure of either is returned.
func (s *EmailServiceImpl) SendEnquiry(ctx context.Context, req dto.EmailRequest) (err error) {
	return s.mailer.SendAll(ctx,
		enquiryAdminMessage(s.config.SMTPConfig.AdminRecipient, req),
		enquiryAutoReplyMessage(req),
	)
}
