// Package customer implements the customer use cases on top of the domain
// entity and its repository.
package customer

import (
	"context"
	"maps"

	"github.com/erp/customers/internal/domain/customer"
	"github.com/erp/customers/internal/domain/shared"
	"github.com/erp/customers/internal/infrastructure/logger"
	"github.com/erp/customers/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Operation names reported to the Recorder
const (
	OpCreated     = "created"
	OpUpdated     = "updated"
	OpDeleted     = "deleted"
	OpActivated   = "activated"
	OpDeactivated = "deactivated"
)

// Recorder receives one event per successful write
type Recorder interface {
	RecordCustomerOperation(ctx context.Context, operation string)
}

type nopRecorder struct{}

func (nopRecorder) RecordCustomerOperation(context.Context, string) {}

// Service handles customer business operations
type Service struct {
	repo     customer.Repository
	recorder Recorder
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithRecorder sets the business metrics recorder
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService creates a new customer Service
func NewService(repo customer.Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create builds a customer from a decoded JSON payload and stores it.
// Any id in the payload is discarded, whatever its type.
func (s *Service) Create(ctx context.Context, payload any) (*customer.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "create")
	defer span.End()

	if m, ok := payload.(map[string]any); ok {
		m = maps.Clone(m)
		delete(m, customer.FieldID)
		payload = m
	}

	c := &customer.Customer{}
	if err := c.Deserialize(payload); err != nil {
		return nil, err
	}
	c.ClearID()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, c); err != nil {
		logger.L(ctx).Warn("Failed to create customer", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, shared.WrapValidationError(err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, c.ID)

	logger.L(ctx).Info("Customer created", zap.Int64("customer_id", c.ID))
	s.recorder.RecordCustomerOperation(ctx, OpCreated)
	return c, nil
}

// Get returns a customer by id
func (s *Service) Get(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// Update replaces the fields of an existing customer with the payload.
// The id in the path always wins over one in the payload.
func (s *Service) Update(ctx context.Context, id int64, payload any) (*customer.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "update", telemetry.SpanAttrCustomerID, id)
	defer span.End()

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Deserialize(payload); err != nil {
		return nil, err
	}
	c.ID = id
	if err := c.ValidateForUpdate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		logger.L(ctx).Warn("Failed to update customer", zap.Int64("customer_id", id), zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, shared.WrapValidationError(err)
	}

	logger.L(ctx).Info("Customer updated", zap.Int64("customer_id", id))
	s.recorder.RecordCustomerOperation(ctx, OpUpdated)
	return c, nil
}

// Delete removes a customer. Removing an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "delete", telemetry.SpanAttrCustomerID, id)
	defer span.End()

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		logger.L(ctx).Warn("Failed to delete customer", zap.Int64("customer_id", id), zap.Error(err))
		telemetry.RecordError(span, err)
		return shared.WrapValidationError(err)
	}

	logger.L(ctx).Info("Customer deleted", zap.Int64("customer_id", id))
	s.recorder.RecordCustomerOperation(ctx, OpDeleted)
	return nil
}

// Activate marks a customer active
func (s *Service) Activate(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate marks a customer inactive
func (s *Service) Deactivate(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.setActive(ctx, id, false)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) (*customer.Customer, error) {
	op, method := OpDeactivated, "deactivate"
	if active {
		op, method = OpActivated, "activate"
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", method, telemetry.SpanAttrCustomerID, id)
	defer span.End()

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		c.Activate()
	} else {
		c.Deactivate()
	}

	if err := s.repo.Update(ctx, c); err != nil {
		logger.L(ctx).Warn("Failed to change customer state",
			zap.Int64("customer_id", id),
			zap.Bool("active", active),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, shared.WrapValidationError(err)
	}

	logger.L(ctx).Info("Customer "+op, zap.Int64("customer_id", id))
	s.recorder.RecordCustomerOperation(ctx, op)
	return c, nil
}

// List returns the customers matching the single criterion selected by filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]customer.Customer, error) {
	kind := filter.Kind()
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "list", telemetry.SpanAttrFilter, string(kind))
	defer span.End()

	result, err := s.list(ctx, filter, kind)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResults, len(result))
	return result, nil
}

func (s *Service) list(ctx context.Context, filter ListFilter, kind FilterKind) ([]customer.Customer, error) {
	switch kind {
	case FilterID:
		id, err := filter.CustomerID()
		if err != nil {
			return nil, err
		}
		c, err := s.repo.FindByID(ctx, id)
		if shared.IsNotFound(err) {
			return []customer.Customer{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []customer.Customer{*c}, nil
	case FilterName:
		return s.repo.FindByName(ctx, filter.Name)
	case FilterEmail:
		return s.repo.FindByEmail(ctx, filter.Email)
	case FilterAddress:
		return s.repo.FindByAddress(ctx, filter.Address)
	case FilterActive:
		return s.repo.FindByActive(ctx, filter.ActiveValue())
	default:
		return s.repo.FindAll(ctx)
	}
}
