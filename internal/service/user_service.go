package service

import (
	"context"
	"strings"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/repository"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/utils"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	repo      repository.UserRepository
	config    *config.Config
	mailer    Mailer
	publisher EventPublisher
}

func CreateUserService(repo repository.UserRepository, config *config.Config, mailer Mailer, publisher EventPublisher) UserService {
	return &UserServiceImpl{repo: repo, config: config, mailer: mailer, publisher: publisher}
}

func toUserResponse(user domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Company:    user.Company,
		CreatedAt:  user.CreatedAt,
	}
}

func (s *UserServiceImpl) AddUser(ctx context.Context, data dto.UserRequest) (res dto.UserResponse, err error) {
	email := strings.ToLower(strings.TrimSpace(data.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return
	}

	if user.ID != 0 {
		return res, errs.ErrEmailAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return res, errs.ErrInternalServer
	}

	userEnt := domain.User{
		Name:           strings.TrimSpace(data.Name),
		Email:          email,
		HashedPassword: string(hash),
		ExternalID:     ulid.Make().String(),
		Phone:          data.Phone,
		Company:        data.Company,
	}

	userEnt.ID, err = s.repo.AddUser(ctx, userEnt)
	if err != nil {
		return res, err
	}

	err = s.publisher.Publish(ctx, dto.EventUserRegistered, userEnt.ExternalID, dto.UserEvent{
		ExternalID: userEnt.ExternalID,
		Name:       userEnt.Name,
		Email:      userEnt.Email,
	})
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("failed to publish user_registered")
	}

	if err := s.mailer.Send(ctx, welcomeMessage(userEnt)); err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("failed to send welcome email")
	}

	return toUserResponse(userEnt), nil
}

func (s *UserServiceImpl) Login(ctx context.Context, payload dto.LoginRequest) (respPayload dto.LoginResponse, err error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(payload.Email))
	if err != nil {
		return
	}

	if user.ID == 0 {
		return respPayload, errs.ErrAccountNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.Password))
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return respPayload, errs.ErrInvalidCredentialsEmail
	}

	token, err := utils.CreateJWTToken(user.ID, user.Name, user.ExternalID, s.config.JWTConfig.JWTSecret, s.config.JWTConfig.JWTKid, s.config.JWTConfig.TTL)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return respPayload, errs.ErrInternalServer
	}

	respPayload.Token = token
	respPayload.UserID = user.ID

	return
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (res dto.UserResponse, err error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return
	}

	if user.ID == 0 {
		return res, errs.ErrAccountNotFound
	}

	return toUserResponse(user), nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, payload dto.UpdateUserRequest) (res dto.UserResponse, err error) {
	user, err := s.repo.GetUserByID(ctx, payload.ID)
	if err != nil {
		return
	}

	if user.ID == 0 {
		return res, errs.ErrAccountNotFound
	}

	user.Name = strings.TrimSpace(payload.Name)
	user.Phone = payload.Phone
	user.Company = payload.Company

	if err = s.repo.UpdateUser(ctx, user); err != nil {
		return res, err
	}

	return toUserResponse(user), nil
}
