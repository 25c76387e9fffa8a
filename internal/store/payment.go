package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mobilearn/appcore/internal/apperror"
	"github.com/mobilearn/appcore/internal/model"
	"github.com/mobilearn/appcore/internal/persist"
)

// PaymentStore is the single owner of the payout bank account
// configuration. The platform's original clients kept two copies of these
// fields (one per editing role); here both roles write through the same
// store and a role check replaces the duplication.
//
// Writes require an admin or instructor actor; reads are unrestricted.
// The store validates nothing about the field formats; that belongs to
// the screen collecting the input.
type PaymentStore struct {
	mu     sync.Mutex
	config model.PaymentConfig

	state  *persist.Container[model.PaymentConfig]
	logger *slog.Logger
}

// NewPaymentStore creates a PaymentStore with all fields empty.
func NewPaymentStore(state *persist.Container[model.PaymentConfig], logger *slog.Logger) *PaymentStore {
	return &PaymentStore{
		state:  state,
		logger: logger,
	}
}

// Restore rehydrates the persisted configuration.
func (s *PaymentStore) Restore(ctx context.Context) error {
	cfg, err := s.state.Load(ctx, model.PaymentConfig{})
	if err != nil {
		s.logger.Warn("payment config restore degraded to defaults",
			slog.String("error", err.Error()),
		)
		return err
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}

// Config returns the current configuration.
func (s *PaymentStore) Config() model.PaymentConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetAccountHolderName updates the account holder name.
func (s *PaymentStore) SetAccountHolderName(ctx context.Context, actor model.Role, v string) error {
	return s.set(ctx, actor, func(c *model.PaymentConfig) { c.AccountHolderName = v })
}

// SetBankAccountNumber updates the bank account number.
func (s *PaymentStore) SetBankAccountNumber(ctx context.Context, actor model.Role, v string) error {
	return s.set(ctx, actor, func(c *model.PaymentConfig) { c.BankAccountNumber = v })
}

// SetRoutingNumber updates the routing number.
func (s *PaymentStore) SetRoutingNumber(ctx context.Context, actor model.Role, v string) error {
	return s.set(ctx, actor, func(c *model.PaymentConfig) { c.RoutingNumber = v })
}

func (s *PaymentStore) set(ctx context.Context, actor model.Role, apply func(*model.PaymentConfig)) error {
	if actor != model.RoleAdmin && actor != model.RoleInstructor {
		return apperror.Forbidden(fmt.Sprintf("role %q may not edit payment configuration", actor))
	}

	s.mu.Lock()
	apply(&s.config)
	snapshot := s.config
	s.mu.Unlock()

	if err := s.state.Save(ctx, snapshot); err != nil {
		s.logger.Warn("payment config not persisted",
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
