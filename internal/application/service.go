package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"golang.org/x/sync/errgroup"

	"arclens/internal/domain"
)

// ChainReader answers point queries against the chain RPC node.
type ChainReader interface {
	Balance(ctx context.Context, address string) (*big.Int, error)
	TransactionCount(ctx context.Context, address string) (uint64, error)
}

// HistorySource returns the bounded, time-ascending account history from
// the explorer API.
type HistorySource interface {
	Transactions(ctx context.Context, address string) ([]domain.TransactionRecord, error)
	TokenTransfers(ctx context.Context, address string) ([]domain.TokenTransferRecord, error)
}

// ErrInvalidAddress marks a missing or malformed account address. No
// upstream call is made for requests that fail validation.
var ErrInvalidAddress = errors.New("invalid address")

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateAddress checks the 0x-prefixed 40-hex-digit address form.
// Mixed case is accepted.
func ValidateAddress(address string) error {
	if !addressPattern.MatchString(address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return nil
}

// Service orchestrates the upstream fetches and the statistics derivation
// for one request. It holds no per-request state; every call recomputes
// from freshly fetched data.
type Service struct {
	chain   ChainReader
	history HistorySource
	cfg     EstimateConfig
}

func NewService(chain ChainReader, history HistorySource, cfg EstimateConfig) (*Service, error) {
	if chain == nil || history == nil {
		return nil, errors.New("service dependencies must not be nil")
	}
	return &Service{chain: chain, history: history, cfg: cfg}, nil
}

// Analyze fetches the four upstream views of the account concurrently and
// assembles the analytics payload. Any upstream failure fails the whole
// request; there is no partial-result mode.
func (s *Service) Analyze(ctx context.Context, address string) (domain.AnalyticsResult, error) {
	if err := ValidateAddress(address); err != nil {
		return domain.AnalyticsResult{}, err
	}

	var (
		balance   *big.Int
		nonce     uint64
		txs       []domain.TransactionRecord
		transfers []domain.TokenTransferRecord
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		value, err := s.chain.Balance(groupCtx, address)
		if err != nil {
			return fmt.Errorf("fetch balance: %w", err)
		}
		balance = value
		return nil
	})
	group.Go(func() error {
		value, err := s.chain.TransactionCount(groupCtx, address)
		if err != nil {
			return fmt.Errorf("fetch transaction count: %w", err)
		}
		nonce = value
		return nil
	})
	group.Go(func() error {
		records, err := s.history.Transactions(groupCtx, address)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		txs = records
		return nil
	})
	group.Go(func() error {
		records, err := s.history.TokenTransfers(groupCtx, address)
		if err != nil {
			return fmt.Errorf("fetch token transfers: %w", err)
		}
		transfers = records
		return nil
	})
	if err := group.Wait(); err != nil {
		return domain.AnalyticsResult{}, err
	}

	return BuildReport(address, balance, nonce, txs, transfers, s.cfg), nil
}
