package repository

import (
	"context"

	"github.com/mechinweb/mechinweb-service/internal/domain"
	pkgdto "github.com/mechinweb/mechinweb-service/pkg/dto"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (res domain.User, err error)
	GetUserByID(ctx context.Context, id int64) (data domain.User, err error)
	AddUser(ctx context.Context, data domain.User) (id int64, err error)
	UpdateUser(ctx context.Context, data domain.User) (err error)
	SetInvoicingCustomerID(ctx context.Context, userID int64, customerID string) (err error)
}

type PurchaseRepository interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo PurchaseRepository) error) error

	AddPurchase(ctx context.Context, data domain.Purchase) (id int64, err error)
	AddPurchaseItems(ctx context.Context, data []domain.PurchaseItem) (err error)
	GetPurchasesByUser(ctx context.Context, filter pkgdto.Filter) (data []domain.Purchase, err error)
	CountPurchasesByUser(ctx context.Context, filter pkgdto.Filter) (count int64, err error)
	GetPurchaseByID(ctx context.Context, id int64, userID int64) (data domain.Purchase, err error)
	GetPurchaseByInvoiceID(ctx context.Context, invoiceID string) (data domain.Purchase, err error)
	GetOpenPurchases(ctx context.Context, limit int) (data []domain.Purchase, err error)
	MarkPurchasesSynced(ctx context.Context, ids []int64, syncedAt int64) (err error)
	UpdatePurchaseStatus(ctx context.Context, data domain.Purchase) (updated bool, err error)
}
