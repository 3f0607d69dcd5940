package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/mailer"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/receipt"
	"github.com/mechinweb/mechinweb-service/pkg/utils"
	"github.com/rs/zerolog/log"
)

const supportSignature = "\n\nThe Mechinweb team"

func welcomeMessage(user domain.User) mailer.Message {
	return mailer.Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Welcome to Mechinweb",
		Body: fmt.Sprintf("Hi %s,\n\nYour Mechinweb account is ready. You can now browse our service packages and place orders from your dashboard.%s",
			user.Name, supportSignature),
	}
}

func purchaseLines(purchase domain.Purchase) string {
	var b strings.Builder
	for _, item := range purchase.Items {
		fmt.Fprintf(&b, "- %s (%s) x %d: %s %.2f\n", item.ServiceName, item.PackageTier, item.Quantity, purchase.Currency, item.TotalPrice)
	}
	fmt.Fprintf(&b, "Total: %s %.2f", purchase.Currency, purchase.Total)
	return b.String()
}

func buildReceipt(user domain.User, purchase domain.Purchase) receipt.Receipt {
	r := receipt.Receipt{
		TransactionNumber: purchase.TransactionNumber,
		InvoiceNumber:     purchase.InvoiceNumber,
		PaymentURL:        purchase.PaymentURL,
		CustomerName:      user.Name,
		CustomerEmail:     user.Email,
		Currency:          purchase.Currency,
		Total:             purchase.Total,
		Status:            purchase.Status,
		IssuedAt:          time.UnixMilli(purchase.CreatedAt).UTC(),
		Lines:             make([]receipt.Line, 0, len(purchase.Items)),
	}
	if user.Company != nil {
		r.Company = *user.Company
	}

	for _, item := range purchase.Items {
		r.Lines = append(r.Lines, receipt.Line{
			Description: fmt.Sprintf("%s (%s)", item.ServiceName, item.PackageTier),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return r
}

// receiptAttachments renders the PDF receipt. A rendering failure only drops
// the attachment.
func receiptAttachments(r receipt.Receipt) []mailer.Attachment {
	pdf, err := receipt.Generate(r)
	if err != nil {
		log.Error().Err(err).Str("component", "receiptAttachments").Str("transaction_number", r.TransactionNumber).Msg("")
		return nil
	}

	return []mailer.Attachment{{Filename: r.Filename(), Content: pdf}}
}

func purchaseConfirmationMessage(user domain.User, purchase domain.Purchase) mailer.Message {
	body := fmt.Sprintf("Hi %s,\n\nThank you for your order. Invoice %s has been raised for the following services:\n\n%s\n",
		user.Name, purchase.InvoiceNumber, purchaseLines(purchase))
	if purchase.PaymentURL != "" {
		body += fmt.Sprintf("\nYou can pay online at %s\n", purchase.PaymentURL)
	}
	body += fmt.Sprintf("\nTransaction number: %s%s", purchase.TransactionNumber, supportSignature)

	return mailer.Message{
		To:          user.Email,
		ToName:      user.Name,
		Subject:     fmt.Sprintf("Your Mechinweb order %s", purchase.InvoiceNumber),
		Body:        body,
		Attachments: receiptAttachments(buildReceipt(user, purchase)),
	}
}

func purchaseAdminMessage(adminRecipient string, user domain.User, purchase domain.Purchase) mailer.Message {
	company := "-"
	if user.Company != nil && *user.Company != "" {
		company = *user.Company
	}
	phone := "-"
	if user.Phone != nil && *user.Phone != "" {
		phone = *user.Phone
	}

	return mailer.Message{
		To:      adminRecipient,
		ReplyTo: user.Email,
		Subject: fmt.Sprintf("New purchase %s from %s", purchase.InvoiceNumber, user.Name),
		Body: fmt.Sprintf("Customer: %s <%s>\nPhone: %s\nCompany: %s\nInvoice: %s (%s)\nTransaction: %s\nPlaced at: %s\n\n%s",
			user.Name, user.Email, phone, company, purchase.InvoiceNumber, purchase.InvoiceID, purchase.TransactionNumber,
			utils.ConvertDateTimeToHumanReadableFormat(purchase.CreatedAt), purchaseLines(purchase)),
	}
}

func paymentReceiptMessage(user domain.User, purchase domain.Purchase) mailer.Message {
	paidAt := purchase.UpdatedAt
	if purchase.PaidAt != nil {
		paidAt = *purchase.PaidAt
	}

	return mailer.Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: fmt.Sprintf("Payment received for invoice %s", purchase.InvoiceNumber),
		Body: fmt.Sprintf("Hi %s,\n\nWe received your payment of %s %.2f for invoice %s on %s. We will be in touch to schedule the work.%s",
			user.Name, purchase.Currency, purchase.Total, purchase.InvoiceNumber, utils.ConvertDateTimeToHumanReadableFormat(paidAt), supportSignature),
		Attachments: receiptAttachments(buildReceipt(user, purchase)),
	}
}

func enquiryAdminMessage(adminRecipient string, req dto.EmailRequest) mailer.Message {
	subject := req.Subject
	if subject == "" {
		subject = "New website enquiry"
	}
	if req.Type == dto.EmailTypeQuoteRequest {
		subject = "Quote request: " + subject
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\nName: %s\nEmail: %s\n", req.Type, req.Name, req.Email)
	if req.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	}
	if req.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", req.Company)
	}
	if req.Service != "" {
		fmt.Fprintf(&b, "Service: %s\n", req.Service)
	}
	fmt.Fprintf(&b, "\n%s", req.Message)

	return mailer.Message{
		To:      adminRecipient,
		ReplyTo: req.Email,
		Subject: subject,
		Body:    b.String(),
	}
}

func enquiryAutoReplyMessage(req dto.EmailRequest) mailer.Message {
	topic := "your message"
	if req.Type == dto.EmailTypeQuoteRequest {
		topic = "your quote request"
		if req.Service != "" {
			topic = fmt.Sprintf("your quote request for %s", req.Service)
		}
	}

	return mailer.Message{
		To:      req.Email,
		ToName:  req.Name,
		Subject: "We received your message",
		Body: fmt.Sprintf("Hi %s,\n\nThanks for reaching out. We received %s and will reply within one business day.%s",
			req.Name, topic, supportSignature),
	}
}
