package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/invoicing"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/mailer"
	"github.com/mechinweb/mechinweb-service/internal/repository"
	pkgdto "github.com/mechinweb/mechinweb-service/pkg/dto"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTConfig:           config.JWTConfig{JWTSecret: "secret", JWTKid: "test"},
		InvoicingConfig:     config.InvoicingConfig{PaymentTermsDays: 7},
		SMTPConfig:          config.SMTPConfig{FromAddress: "hello@mechinweb.com", AdminRecipient: "admin@mechinweb.com"},
		WebhookToken:        "hook-secret",
		DefaultCurrencyCode: "USD",
	}
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64
	addErr error
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]domain.User{}, nextID: 100}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) AddUser(ctx context.Context, data domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return 0, r.addErr
	}
	r.nextID++
	data.ID = r.nextID
	r.users[data.ID] = data
	return data.ID, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, data domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[data.ID] = data
	return nil
}

func (r *fakeUserRepo) SetInvoicingCustomerID(ctx context.Context, userID int64, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	u.InvoicingCustomerID = &customerID
	r.users[userID] = u
	return nil
}

type fakePurchaseRepo struct {
	mu        sync.Mutex
	purchases map[int64]domain.Purchase
	nextID    int64
	failTrx   error
	updates   []domain.Purchase
	syncedAt  map[int64]int64
}

func newFakePurchaseRepo(purchases ...domain.Purchase) *fakePurchaseRepo {
	r := &fakePurchaseRepo{purchases: map[int64]domain.Purchase{}, syncedAt: map[int64]int64{}}
	for _, p := range purchases {
		r.purchases[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakePurchaseRepo) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo repository.PurchaseRepository) error) error {
	if r.failTrx != nil {
		return r.failTrx
	}
	return fn(ctx, r)
}

func (r *fakePurchaseRepo) AddPurchase(ctx context.Context, data domain.Purchase) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	data.ID = r.nextID
	data.Items = nil
	r.purchases[data.ID] = data
	return data.ID, nil
}

func (r *fakePurchaseRepo) AddPurchaseItems(ctx context.Context, data []domain.PurchaseItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range data {
		p := r.purchases[item.PurchaseID]
		p.Items = append(p.Items, item)
		r.purchases[item.PurchaseID] = p
	}
	return nil
}

func (r *fakePurchaseRepo) GetPurchasesByUser(ctx context.Context, filter pkgdto.Filter) ([]domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []domain.Purchase
	for _, p := range r.purchases {
		if p.UserID == filter.UserID && (filter.Status == "" || filter.Status == p.Status) {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *fakePurchaseRepo) CountPurchasesByUser(ctx context.Context, filter pkgdto.Filter) (int64, error) {
	res, _ := r.GetPurchasesByUser(ctx, filter)
	return int64(len(res)), nil
}

func (r *fakePurchaseRepo) GetPurchaseByID(ctx context.Context, id int64, userID int64) (domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok || p.UserID != userID {
		return domain.Purchase{}, errs.ErrNotFound
	}
	return p, nil
}

func (r *fakePurchaseRepo) GetPurchaseByInvoiceID(ctx context.Context, invoiceID string) (domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.purchases {
		if p.InvoiceID == invoiceID {
			return p, nil
		}
	}
	return domain.Purchase{}, errs.ErrNotFound
}

func (r *fakePurchaseRepo) GetOpenPurchases(ctx context.Context, limit int) ([]domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []domain.Purchase
	for _, p := range r.purchases {
		if !domain.IsFinalPurchaseStatus(p.Status) {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if r.syncedAt[res[i].ID] != r.syncedAt[res[j].ID] {
			return r.syncedAt[res[i].ID] < r.syncedAt[res[j].ID]
		}
		return res[i].ID < res[j].ID
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *fakePurchaseRepo) MarkPurchasesSynced(ctx context.Context, ids []int64, syncedAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.syncedAt[id] = syncedAt
	}
	return nil
}

func (r *fakePurchaseRepo) UpdatePurchaseStatus(ctx context.Context, data domain.Purchase) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[data.ID]
	if !ok || domain.IsFinalPurchaseStatus(p.Status) {
		return false, nil
	}
	p.Status = data.Status
	p.PaidAt = data.PaidAt
	p.UpdatedAt = data.UpdatedAt
	r.purchases[data.ID] = p
	r.updates = append(r.updates, data)
	return true, nil
}

type fakeInvoicing struct {
	mu             sync.Mutex
	customers      []domain.Customer
	invoices       map[string]domain.InvoiceSummary
	createdInvoice *invoicing.CreateInvoiceRequest
	getErr         error
	createErr      error
	customerCalls  int
	emailed        []string
}

func newFakeInvoicing() *fakeInvoicing {
	return &fakeInvoicing{invoices: map[string]domain.InvoiceSummary{}}
}

func (f *fakeInvoicing) FindCustomerByEmail(ctx context.Context, email string) (domain.Customer, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if strings.EqualFold(c.Email, email) {
			return c, true, nil
		}
	}
	return domain.Customer{}, false, nil
}

func (f *fakeInvoicing) FindCustomerByName(ctx context.Context, name string) (domain.Customer, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if strings.EqualFold(c.Name, name) {
			return c, true, nil
		}
	}
	return domain.Customer{}, false, nil
}

func (f *fakeInvoicing) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer.ID = "cust-" + customer.Email
	f.customers = append(f.customers, customer)
	return customer, nil
}

func (f *fakeInvoicing) FindOrCreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, bool, error) {
	f.mu.Lock()
	f.customerCalls++
	f.mu.Unlock()

	if existing, found, _ := f.FindCustomerByEmail(ctx, customer.Email); found {
		return existing, false, nil
	}
	created, err := f.CreateCustomer(ctx, customer)
	return created, true, err
}

func (f *fakeInvoicing) CreateInvoice(ctx context.Context, req invoicing.CreateInvoiceRequest) (domain.InvoiceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.InvoiceSummary{}, f.createErr
	}
	f.createdInvoice = &req

	var total float64
	for _, item := range req.Items {
		total += item.TotalPrice
	}
	invoice := domain.InvoiceSummary{
		ID:         "inv-1",
		Number:     "INV-000001",
		PaymentURL: "https://pay.example/inv-1",
		Total:      total,
		Currency:   req.Currency,
		Status:     "draft",
		CustomerID: req.CustomerID,
	}
	f.invoices[invoice.ID] = invoice
	return invoice, nil
}

func (f *fakeInvoicing) GetInvoice(ctx context.Context, invoiceID string) (domain.InvoiceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.InvoiceSummary{}, f.getErr
	}
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return domain.InvoiceSummary{}, errs.ErrNotFound
	}
	return invoice, nil
}

func (f *fakeInvoicing) ListInvoices(ctx context.Context, customerID string) ([]domain.InvoiceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.InvoiceSummary
	for _, invoice := range f.invoices {
		if invoice.CustomerID == customerID {
			res = append(res, invoice)
		}
	}
	return res, nil
}

func (f *fakeInvoicing) EmailInvoice(ctx context.Context, invoiceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invoices[invoiceID]; !ok {
		return errs.ErrNotFound
	}
	f.emailed = append(f.emailed, invoiceID)
	invoice := f.invoices[invoiceID]
	if invoice.Status == "draft" {
		invoice.Status = "sent"
		f.invoices[invoiceID] = invoice
	}
	return nil
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: map[string]error{}}
}

func (m *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[msg.To]; ok {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) SendAll(ctx context.Context, msgs ...mailer.Message) error {
	var firstErr error
	for _, msg := range msgs {
		if err := m.Send(ctx, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []string
	for _, msg := range m.sent {
		res = append(res, msg.To)
	}
	return res
}

type publishedEvent struct {
	EventType string
	Key       string
	Data      interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{EventType: eventType, Key: key, Data: data})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var res []string
	for _, e := range p.events {
		res = append(res, e.EventType)
	}
	return res
}

type fakeRates map[string]float64

func (r fakeRates) Rate(ctx context.Context, currency string) (float64, error) {
	rate, ok := r[strings.ToUpper(currency)]
	if !ok {
		return 0, errs.ErrUnsupportedCurrency
	}
	return rate, nil
}

func (r fakeRates) Rates(ctx context.Context) map[string]float64 {
	return r
}

var testRates = fakeRates{"USD": 1, "INR": 83.1, "EUR": 0.92}
