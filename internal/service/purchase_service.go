package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/invoicing"
	"github.com/mechinweb/mechinweb-service/internal/repository"
	pkgdto "github.com/mechinweb/mechinweb-service/pkg/dto"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/utils"
	"github.com/rs/zerolog/log"
)

const syncBatchSize = 50

type PurchaseServiceImpl struct {
	repo      repository.PurchaseRepository
	userRepo  repository.UserRepository
	pricing   PricingService
	invoicing InvoicingClient
	mailer    Mailer
	publisher EventPublisher
	config    *config.Config
	now       func() time.Time
}

func CreatePurchaseService(repo repository.PurchaseRepository, userRepo repository.UserRepository, pricing PricingService, invoicingClient InvoicingClient, mailer Mailer, publisher EventPublisher, config *config.Config) PurchaseService {
	return &PurchaseServiceImpl{
		repo:      repo,
		userRepo:  userRepo,
		pricing:   pricing,
		invoicing: invoicingClient,
		mailer:    mailer,
		publisher: publisher,
		config:    config,
		now:       time.Now,
	}
}

func toPurchaseResponse(purchase domain.Purchase) dto.PurchaseResponse {
	res := dto.PurchaseResponse{
		ID:                purchase.ID,
		TransactionNumber: purchase.TransactionNumber,
		InvoiceID:         purchase.InvoiceID,
		InvoiceNumber:     purchase.InvoiceNumber,
		PaymentURL:        purchase.PaymentURL,
		Currency:          purchase.Currency,
		Total:             purchase.Total,
		Status:            purchase.Status,
		PaidAt:            purchase.PaidAt,
		CreatedAt:         purchase.CreatedAt,
	}

	for _, item := range purchase.Items {
		res.Items = append(res.Items, dto.PurchaseItemResponse{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			Package:     item.PackageTier,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return res
}

func toPurchaseEvent(user domain.User, purchase domain.Purchase) dto.PurchaseEvent {
	return dto.PurchaseEvent{
		TransactionNumber: purchase.TransactionNumber,
		UserExternalID:    user.ExternalID,
		InvoiceID:         purchase.InvoiceID,
		InvoiceNumber:     purchase.InvoiceNumber,
		Currency:          purchase.Currency,
		Total:             purchase.Total,
		Status:            purchase.Status,
	}
}

// CreatePurchase prices the order, raises the invoice for the user's
// invoicing customer and records the purchase. Customer and admin emails are
// sent once the purchase is stored; their failure is reported in the
// response and does not undo the purchase.
func (s *PurchaseServiceImpl) CreatePurchase(ctx context.Context, req dto.PurchaseRequest) (res dto.CreatePurchaseResponse, err error) {
	user, err := s.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return
	}

	if user.ID == 0 {
		return res, errs.ErrAccountNotFound
	}

	quote, err := s.pricing.Quote(ctx, req.Currency, req.Items)
	if err != nil {
		return
	}

	if req.Phone != nil || req.Company != nil {
		if req.Phone != nil {
			user.Phone = req.Phone
		}
		if req.Company != nil {
			user.Company = req.Company
		}
		if err := s.userRepo.UpdateUser(ctx, user); err != nil {
			log.Error().Err(err).Str("component", "CreatePurchase").Msg("failed to update contact details")
		}
	}

	customerID, err := s.invoicingCustomerID(ctx, user)
	if err != nil {
		return
	}

	trxNumber, err := uuid.NewV7()
	if err != nil {
		log.Error().Err(err).Str("component", "CreatePurchase").Msg("")
		return res, errs.ErrInternalServer
	}

	now := s.now()
	issueDate, dueDate := utils.InvoiceDates(now, s.config.InvoicingConfig.PaymentTermsDays)

	invoice, err := s.invoicing.CreateInvoice(ctx, invoicing.CreateInvoiceRequest{
		CustomerID:  customerID,
		Currency:    quote.Currency,
		ReferenceNo: trxNumber.String(),
		Notes:       req.Notes,
		Date:        issueDate,
		DueDate:     dueDate,
		Items:       quote.Lines,
	})
	if err != nil {
		return
	}

	timestamp := now.UnixMilli()
	purchase := domain.Purchase{
		UserID:            user.ID,
		TransactionNumber: trxNumber.String(),
		InvoiceID:         invoice.ID,
		InvoiceNumber:     invoice.Number,
		PaymentURL:        invoice.PaymentURL,
		Currency:          quote.Currency,
		Total:             quote.Total,
		Status:            domain.PurchaseStatusPending,
		CreatedAt:         timestamp,
		UpdatedAt:         timestamp,
	}
	if invoice.Total > 0 {
		purchase.Total = domain.RoundCents(invoice.Total)
	}

	for _, line := range quote.Lines {
		purchase.Items = append(purchase.Items, domain.PurchaseItem{
			ServiceID:   line.ServiceID,
			ServiceName: line.ServiceName,
			PackageTier: line.PackageTier,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
			CreatedAt:   timestamp,
			UpdatedAt:   timestamp,
		})
	}

	err = s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.PurchaseRepository) error {
		id, err := repo.AddPurchase(ctx, purchase)
		if err != nil {
			return err
		}
		purchase.ID = id

		for i := range purchase.Items {
			purchase.Items[i].PurchaseID = id
		}

		return repo.AddPurchaseItems(ctx, purchase.Items)
	})
	if err != nil {
		log.Error().Err(err).Str("component", "CreatePurchase").Str("invoice_id", invoice.ID).Msg("invoice raised but purchase was not stored")
		return res, errs.ErrInternalServer
	}

	if err := s.publisher.Publish(ctx, dto.EventPurchaseCreated, purchase.TransactionNumber, toPurchaseEvent(user, purchase)); err != nil {
		log.Error().Err(err).Str("component", "CreatePurchase").Msg("failed to publish purchase_created")
	}

	res.PurchaseResponse = toPurchaseResponse(purchase)
	res.NotificationsSent = true

	err = s.mailer.SendAll(ctx,
		purchaseConfirmationMessage(user, purchase),
		purchaseAdminMessage(s.config.SMTPConfig.AdminRecipient, user, purchase),
	)
	if err != nil {
		log.Error().Err(err).Str("component", "CreatePurchase").Str("transaction_number", purchase.TransactionNumber).Msg("failed to send purchase notifications")
		res.NotificationsSent = false
	}

	return res, nil
}

// invoicingCustomerID returns the user's contact id in the invoicing API,
// finding or creating the contact on first purchase.
func (s *PurchaseServiceImpl) invoicingCustomerID(ctx context.Context, user domain.User) (string, error) {
	if user.InvoicingCustomerID != nil && *user.InvoicingCustomerID != "" {
		return *user.InvoicingCustomerID, nil
	}

	customer := domain.Customer{
		Name:  user.Name,
		Email: user.Email,
	}
	if user.Phone != nil {
		customer.Phone = *user.Phone
	}
	if user.Company != nil {
		customer.Company = *user.Company
	}

	customer, created, err := s.invoicing.FindOrCreateCustomer(ctx, customer)
	if err != nil {
		return "", err
	}

	log.Info().Str("component", "invoicingCustomerID").Str("customer_id", customer.ID).Bool("created", created).Msg("resolved invoicing customer")

	if err := s.userRepo.SetInvoicingCustomerID(ctx, user.ID, customer.ID); err != nil {
		log.Error().Err(err).Str("component", "invoicingCustomerID").Msg("failed to cache invoicing customer id")
	}

	return customer.ID, nil
}

func (s *PurchaseServiceImpl) GetPurchases(ctx context.Context, filter pkgdto.Filter) (res pkgdto.PaginationResponse, err error) {
	filter = filter.Normalize()

	if filter.Status != "" && !domain.IsKnownPurchaseStatus(filter.Status) {
		return res, errs.ErrClient
	}

	purchases, err := s.repo.GetPurchasesByUser(ctx, filter)
	if err != nil {
		return
	}

	count, err := s.repo.CountPurchasesByUser(ctx, filter)
	if err != nil {
		return
	}

	records := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		records = append(records, toPurchaseResponse(purchase))
	}

	res.Metadata = pkgdto.PaginationMetadata{
		TotalCount: count,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	res.Records = records

	return res, nil
}

func (s *PurchaseServiceImpl) GetPurchase(ctx context.Context, userID int64, id int64) (res dto.PurchaseResponse, err error) {
	purchase, err := s.repo.GetPurchaseByID(ctx, id, userID)
	if err != nil {
		return
	}

	return toPurchaseResponse(purchase), nil
}

// VerifyWebhookToken rejects every token when none is configured.
func (s *PurchaseServiceImpl) VerifyWebhookToken(token string) (err error) {
	expected := s.config.WebhookToken
	if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return errs.ErrInvalidWebhookToken
	}

	return nil
}

// HandleInvoiceWebhook applies a status pushed by the invoicing API.
func (s *PurchaseServiceImpl) HandleInvoiceWebhook(ctx context.Context, token string, req dto.InvoiceWebhookRequest) (err error) {
	if err := s.VerifyWebhookToken(token); err != nil {
		return err
	}

	status := invoicing.NormalizeStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !domain.IsKnownPurchaseStatus(status) {
		return fmt.Errorf("%w: unknown invoice status %q", errs.ErrClient, req.Status)
	}

	purchase, err := s.repo.GetPurchaseByInvoiceID(ctx, req.InvoiceID)
	if err != nil {
		return
	}

	_, err = s.applyStatus(ctx, purchase, status)

	return err
}

// SyncInvoiceStatuses re-reads the invoices of the open purchases checked
// least recently and applies any status change. Every checked purchase moves
// to the back of the queue so later batches reach the rest. It stops early
// when the invoicing API is unavailable.
func (s *PurchaseServiceImpl) SyncInvoiceStatuses(ctx context.Context) (updated int, err error) {
	purchases, err := s.repo.GetOpenPurchases(ctx, syncBatchSize)
	if err != nil {
		return 0, err
	}

	checked := make([]int64, 0, len(purchases))
	defer func() {
		if err := s.repo.MarkPurchasesSynced(ctx, checked, s.now().UnixMilli()); err != nil {
			log.Error().Err(err).Str("component", "SyncInvoiceStatuses").Int("count", len(checked)).Msg("failed to record sync time")
		}
	}()

	for _, purchase := range purchases {
		invoice, err := s.invoicing.GetInvoice(ctx, purchase.InvoiceID)
		if errors.Is(err, errs.ErrCircuitOpen) || errors.Is(err, errs.ErrInvoicingUnauthorized) {
			return updated, err
		}
		checked = append(checked, purchase.ID)
		if err != nil {
			log.Error().Err(err).Str("component", "SyncInvoiceStatuses").Str("invoice_id", purchase.InvoiceID).Msg("")
			continue
		}

		status := invoicing.NormalizeStatus(invoice.Status)
		if !domain.IsKnownPurchaseStatus(status) {
			log.Warn().Str("component", "SyncInvoiceStatuses").Str("invoice_id", purchase.InvoiceID).Str("status", invoice.Status).Msg("ignoring unknown invoice status")
			continue
		}

		changed, err := s.applyStatus(ctx, purchase, status)
		if err != nil {
			log.Error().Err(err).Str("component", "SyncInvoiceStatuses").Str("invoice_id", purchase.InvoiceID).Msg("")
			continue
		}
		if changed {
			updated++
		}
	}

	return updated, nil
}

// applyStatus stores a new status for the purchase. Paid and void purchases
// are final and never change again.
func (s *PurchaseServiceImpl) applyStatus(ctx context.Context, purchase domain.Purchase, status string) (bool, error) {
	if purchase.Status == status || domain.IsFinalPurchaseStatus(purchase.Status) {
		return false, nil
	}

	purchase.Status = status
	purchase.UpdatedAt = s.now().UnixMilli()
	if status == domain.PurchaseStatusPaid {
		paidAt := purchase.UpdatedAt
		purchase.PaidAt = &paidAt
	}

	changed, err := s.repo.UpdatePurchaseStatus(ctx, purchase)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	user, err := s.userRepo.GetUserByID(ctx, purchase.UserID)
	if err != nil || user.ID == 0 {
		log.Error().Err(err).Str("component", "applyStatus").Int64("user_id", purchase.UserID).Msg("purchase owner not found")
		return true, nil
	}

	eventType := dto.EventInvoiceStatus
	if status == domain.PurchaseStatusPaid {
		eventType = dto.EventInvoicePaid
	}

	if err := s.publisher.Publish(ctx, eventType, purchase.TransactionNumber, toPurchaseEvent(user, purchase)); err != nil {
		log.Error().Err(err).Str("component", "applyStatus").Str("event_type", eventType).Msg("")
	}

	if status == domain.PurchaseStatusPaid {
		if err := s.mailer.Send(ctx, paymentReceiptMessage(user, purchase)); err != nil {
			log.Error().Err(err).Str("component", "applyStatus").Str("transaction_number", purchase.TransactionNumber).Msg("failed to send payment receipt")
		}
	}

	return true, nil
}
