package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mechinweb/mechinweb-service/internal/domain"
	pkgdto "github.com/mechinweb/mechinweb-service/pkg/dto"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

const (
	purchaseColumns     = "id, user_id, transaction_number, invoice_id, invoice_number, payment_url, currency, total, status, paid_at, created_at, updated_at, deleted_at"
	purchaseItemColumns = "id, purchase_id, service_id, service_name, package_tier, quantity, unit_price, total_price, created_at, updated_at, deleted_at"
)

var errNoTransaction = errors.New("repository: write requires a transaction")

type PurchaseRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreatePurchaseRepository(db *sqlx.DB) PurchaseRepository {
	return &PurchaseRepositoryImpl{
		db: db,
	}
}

// AddPurchase must run inside HandleTrx.
func (r *PurchaseRepositoryImpl) AddPurchase(ctx context.Context, data domain.Purchase) (id int64, err error) {
	if r.tx == nil {
		return 0, errNoTransaction
	}

	nstmt, err := r.tx.PrepareNamedContext(ctx, "INSERT INTO purchases(user_id, transaction_number, invoice_id, invoice_number, payment_url, currency, total, status, created_at, updated_at) VALUES (:user_id, :transaction_number, :invoice_id, :invoice_number, :payment_url, :currency, :total, :status, :created_at, :updated_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddPurchase").Msg("")
		return
	}
	defer nstmt.Close()

	err = nstmt.GetContext(ctx, &id, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddPurchase").Msg("")
		return
	}

	return id, nil
}

// AddPurchaseItems must run inside HandleTrx.
func (r *PurchaseRepositoryImpl) AddPurchaseItems(ctx context.Context, data []domain.PurchaseItem) (err error) {
	if r.tx == nil {
		return errNoTransaction
	}
	if len(data) == 0 {
		return nil
	}

	_, err = r.tx.NamedExecContext(ctx, "INSERT INTO purchase_items(purchase_id, service_id, service_name, package_tier, quantity, unit_price, total_price, created_at, updated_at) VALUES (:purchase_id, :service_id, :service_name, :package_tier, :quantity, :unit_price, :total_price, :created_at, :updated_at)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddPurchaseItems").Msg("")
		return
	}

	return nil
}

func (r *PurchaseRepositoryImpl) GetPurchasesByUser(ctx context.Context, filter pkgdto.Filter) (data []domain.Purchase, err error) {
	query := "SELECT " + purchaseColumns + " FROM purchases WHERE user_id = :user_id AND deleted_at IS NULL"

	args := map[string]interface{}{
		"user_id": filter.UserID,
	}

	if filter.Status != "" {
		query += " AND status = :status"
		args["status"] = filter.Status
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetPurchasesByUser").Msg("")
		return nil, errs.ErrInternalServer
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetPurchasesByUser").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *PurchaseRepositoryImpl) CountPurchasesByUser(ctx context.Context, filter pkgdto.Filter) (count int64, err error) {
	query := "SELECT COUNT(id) FROM purchases WHERE user_id = $1 AND deleted_at IS NULL"
	args := []interface{}{filter.UserID}

	if filter.Status != "" {
		query += " AND status = $2"
		args = append(args, filter.Status)
	}

	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		log.Error().Err(err).Str("component", "CountPurchasesByUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

// GetPurchaseByID returns the purchase with its items, or ErrNotFound when it
// does not belong to the user.
func (r *PurchaseRepositoryImpl) GetPurchaseByID(ctx context.Context, id int64, userID int64) (data domain.Purchase, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT "+purchaseColumns+" FROM purchases WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL", id, userID)
	err = row.StructScan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return data, errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "GetPurchaseByID").Msg("")
		return data, errs.ErrInternalServer
	}

	data.Items, err = r.getPurchaseItems(ctx, data.ID)
	if err != nil {
		return domain.Purchase{}, err
	}

	return data, nil
}

func (r *PurchaseRepositoryImpl) GetPurchaseByInvoiceID(ctx context.Context, invoiceID string) (data domain.Purchase, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT "+purchaseColumns+" FROM purchases WHERE invoice_id = $1 AND deleted_at IS NULL", invoiceID)
	err = row.StructScan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return data, errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "GetPurchaseByInvoiceID").Msg("")
		return data, errs.ErrInternalServer
	}

	data.Items, err = r.getPurchaseItems(ctx, data.ID)
	if err != nil {
		return domain.Purchase{}, err
	}

	return data, nil
}

// GetOpenPurchases returns the open purchases that were checked against the
// invoicing API least recently.
func (r *PurchaseRepositoryImpl) GetOpenPurchases(ctx context.Context, limit int) (data []domain.Purchase, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT "+purchaseColumns+" FROM purchases WHERE status NOT IN ($1, $2) AND deleted_at IS NULL ORDER BY synced_at ASC, id ASC LIMIT $3",
		domain.PurchaseStatusPaid, domain.PurchaseStatusVoid, limit)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOpenPurchases").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

// MarkPurchasesSynced moves the purchases to the back of the sync queue.
func (r *PurchaseRepositoryImpl) MarkPurchasesSynced(ctx context.Context, ids []int64, syncedAt int64) (err error) {
	if len(ids) == 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, "UPDATE purchases SET synced_at = $1 WHERE id = ANY($2)", syncedAt, pq.Array(ids))
	if err != nil {
		log.Error().Err(err).Str("component", "MarkPurchasesSynced").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

// UpdatePurchaseStatus reports false when the purchase is missing or already
// paid or void.
func (r *PurchaseRepositoryImpl) UpdatePurchaseStatus(ctx context.Context, data domain.Purchase) (updated bool, err error) {
	data.UpdatedAt = time.Now().UnixMilli()

	result, err := r.db.NamedExecContext(ctx, "UPDATE purchases SET status=:status, paid_at=:paid_at, updated_at=:updated_at WHERE id=:id AND deleted_at IS NULL AND status NOT IN ('paid', 'void')", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdatePurchaseStatus").Msg("")
		return false, errs.ErrInternalServer
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "UpdatePurchaseStatus").Msg("")
		return false, errs.ErrInternalServer
	}

	return affected > 0, nil
}

func (r *PurchaseRepositoryImpl) getPurchaseItems(ctx context.Context, purchaseID int64) (data []domain.PurchaseItem, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT "+purchaseItemColumns+" FROM purchase_items WHERE purchase_id = $1 AND deleted_at IS NULL ORDER BY id ASC", purchaseID)
	if err != nil {
		log.Error().Err(err).Str("component", "getPurchaseItems").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *PurchaseRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo PurchaseRepository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		log.Error().Err(err).Str("component", "HandleTrx").Msg("")
		return errs.ErrInternalServer
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	txRepo := &PurchaseRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, txRepo)

	return err
}
