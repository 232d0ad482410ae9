package telemetry

import (
	"context"
	"errors"
)

// ErrMeterNil is returned when an instrument set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// CustomerMetrics counts successful customer writes by operation
// (created, updated, deleted, activated, deactivated).
type CustomerMetrics struct {
	operations *Counter
}

// NewCustomerMetrics registers the customer instruments on the provider's meter
func NewCustomerMetrics(mp *MeterProvider) (*CustomerMetrics, error) {
	if mp == nil {
		return nil, ErrMeterNil
	}
	operations, err := NewCounter(
		mp.Meter("customer-service/customers"),
		"customer_operations_total",
		"Successful customer write operations",
		"{operation}",
	)
	if err != nil {
		return nil, err
	}
	return &CustomerMetrics{operations: operations}, nil
}

// RecordCustomerOperation increments the counter for operation
func (m *CustomerMetrics) RecordCustomerOperation(ctx context.Context, operation string) {
	m.operations.Inc(ctx, AttrOperation.String(operation))
}
