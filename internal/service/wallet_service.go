package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/nokhba/academy-backend/internal/config"
	"github.com/nokhba/academy-backend/internal/model"
	"github.com/nokhba/academy-backend/internal/repository"
	"github.com/nokhba/academy-backend/internal/response"
	ws "github.com/nokhba/academy-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// codeAlphabet excludes nothing: codes are not secrets in transit, only
// unguessable enough that brute force is impractical at 36^10.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RedeemResponse reports a successful top-up.
type RedeemResponse struct {
	Value   int `json:"value"`
	Balance int `json:"balance"`
}

// WalletService handles recharge code minting and redemption.
type WalletService struct {
	codeRepo    *repository.CodeRepository
	studentRepo *repository.StudentRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(
	codeRepo *repository.CodeRepository,
	studentRepo *repository.StudentRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *WalletService {
	return &WalletService{
		codeRepo:    codeRepo,
		studentRepo: studentRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "wallet_service").Logger(),
	}
}

// GenerateCode produces a code in XXXXX-XXXXX form.
func GenerateCode() string {
	var b strings.Builder
	b.Grow(11)
	for i := 0; i < 10; i++ {
		if i == 5 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// MintCode creates a new single-use recharge code worth the given value.
// Retries on the rare code collision.
func (s *WalletService) MintCode(ctx context.Context, value int) (*model.RechargeCode, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code := &model.RechargeCode{
			Code:  GenerateCode(),
			Value: value,
		}
		err := s.codeRepo.Create(ctx, code)
		if err == nil {
			s.log.Info().Str("code", code.Code).Int("value", value).Msg("Code minted")
			return code, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCode) {
			return nil, fmt.Errorf("mint code: %w", err)
		}
	}
	return nil, errors.New("could not mint a unique code")
}

// Redeem consumes a code and credits the student's wallet. Each code
// succeeds exactly once; the repository's conditional update settles races.
func (s *WalletService) Redeem(ctx context.Context, studentID int, code string) (*RedeemResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	value, balance, err := s.codeRepo.Redeem(ctx, code, studentID)
	if err != nil {
		return nil, err
	}

	s.publishWallet(ctx, studentID, balance, value)

	s.log.Info().
		Int("student_id", studentID).
		Int("value", value).
		Int("balance", balance).
		Msg("Code redeemed")

	return &RedeemResponse{Value: value, Balance: balance}, nil
}

// GetBalance reads the student's current wallet balance.
func (s *WalletService) GetBalance(ctx context.Context, studentID int) (int, error) {
	return s.studentRepo.GetWalletBalance(ctx, studentID)
}

// ListCodes retrieves codes for the admin catalogue.
func (s *WalletService) ListCodes(ctx context.Context, used *bool, page, perPage int) ([]model.RechargeCode, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	codes, total, err := s.codeRepo.ListPaginated(ctx, used, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if codes == nil {
		codes = []model.RechargeCode{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return codes, pagination, nil
}

// publishWallet pushes the new balance onto the student's event channel.
// Best effort.
func (s *WalletService) publishWallet(ctx context.Context, studentID, balance, value int) {
	event := ws.WalletEvent{
		Event:   ws.EventWallet,
		Balance: balance,
		Value:   value,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.StudentEventsChannel(studentID), data).Err(); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Failed to publish wallet event")
	}
}
