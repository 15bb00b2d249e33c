package partner

import (
	"context"
	"errors"

	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CustomerService handles customer identity lookups and registration
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for CustomerRegistered events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// FindByEmail returns the customer registered with email, or nil when none is
func (s *CustomerService) FindByEmail(ctx context.Context, email string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// FindByUserOrderID returns the customer owning an identity, or nil when none does
func (s *CustomerService) FindByUserOrderID(ctx context.Context, userOrderID string) (*CustomerResponse, error) {
	if userOrderID == "" {
		return nil, partner.ErrInvalidUserOrderID
	}
	customer, err := s.customerRepo.FindByUserOrderID(ctx, userOrderID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Register links email to req.UserOrderID. Registration is idempotent: an email
// that is already registered keeps its original identity, which is returned
// with Created=false. A concurrent registration losing the unique-email race
// re-reads the winner's row.
func (s *CustomerService) Register(ctx context.Context, req RegisterCustomerRequest) (*RegisterCustomerResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "register")
	defer span.End()

	existing, err := s.customerRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		telemetry.SetAttributes(span, telemetry.SpanAttrCustomerNew, false)
		return &RegisterCustomerResult{UserOrderID: existing.UserOrderID}, nil
	case !errors.Is(err, shared.ErrNotFound):
		telemetry.RecordError(span, err)
		return nil, err
	}

	customer, err := partner.NewCustomer(req.Email, req.UserOrderID)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			telemetry.RecordError(span, err)
			return nil, err
		}
		winner, findErr := s.customerRepo.FindByEmail(ctx, customer.Email)
		if findErr != nil {
			telemetry.RecordError(span, findErr)
			return nil, findErr
		}
		s.logger.Info("Customer registration lost race, returning existing identity",
			zap.String("customer_id", winner.ID.String()))
		telemetry.SetAttributes(span, telemetry.SpanAttrCustomerNew, false)
		return &RegisterCustomerResult{UserOrderID: winner.UserOrderID}, nil
	}

	s.publishEvents(ctx, customer)
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerNew, true)
	s.logger.Info("Customer registered", zap.String("customer_id", customer.ID.String()))

	return &RegisterCustomerResult{UserOrderID: customer.UserOrderID, Created: true}, nil
}

// List returns customers newest first with the total count
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

func (s *CustomerService) publishEvents(ctx context.Context, customer *partner.Customer) {
	defer customer.ClearDomainEvents()
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, customer.GetDomainEvents()...); err != nil {
		s.logger.Warn("Failed to publish customer events", zap.Error(err))
	}
}
