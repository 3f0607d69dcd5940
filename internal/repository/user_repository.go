package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

const uniqueViolation = pq.ErrorCode("23505")

const userColumns = "id, name, email, external_id, hashed_password, phone, company, invoicing_customer_id, created_at, updated_at, deleted_at"

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func CreateUserRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// GetUserByEmail returns the zero user when no active user has the email.
func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (res domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL", email)
	err = row.StructScan(&res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, nil
		}
		log.Error().Err(err).Str("component", "GetUserByEmail").Msg("")
		return res, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id int64) (data domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1 AND deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetUserByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id int64, err error) {
	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	nstmt, err := r.db.PrepareNamedContext(ctx, "INSERT INTO users(name, email, external_id, hashed_password, phone, company, created_at, updated_at) VALUES (:name, :email, :external_id, :hashed_password, :phone, :company, :created_at, :updated_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}
	defer nstmt.Close()

	err = nstmt.GetContext(ctx, &id, data)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, errs.ErrEmailAlreadyUsed
		}
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	return id, nil
}

func (r *UserRepositoryImpl) UpdateUser(ctx context.Context, data domain.User) (err error) {
	data.UpdatedAt = time.Now().UnixMilli()

	_, err = r.db.NamedExecContext(ctx, "UPDATE users SET name=:name, phone=:phone, company=:company, updated_at=:updated_at WHERE id=:id AND deleted_at IS NULL", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUser").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *UserRepositoryImpl) SetInvoicingCustomerID(ctx context.Context, userID int64, customerID string) (err error) {
	_, err = r.db.ExecContext(ctx, "UPDATE users SET invoicing_customer_id = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL", customerID, time.Now().UnixMilli(), userID)
	if err != nil {
		log.Error().Err(err).Str("component", "SetInvoicingCustomerID").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}
