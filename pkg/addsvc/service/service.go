package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/log"

	"github.com/cage1016/adder/pkg/calc"
)

// ErrMissingInput is returned when an operand is absent, null or empty.
var ErrMissingInput = errors.New("missing required input")

// Middleware describes a service (as opposed to endpoint) middleware.
type Middleware func(AddsvcService) AddsvcService

// AddsvcService describes a service that adds two numbers together.
type AddsvcService interface {
	// Add parses both operands and returns their sum rounded to 5 decimal
	// places. NaN and infinite sums are returned as is, not as errors.
	Add(ctx context.Context, num1 Operand, num2 Operand) (rs float64, err error)
}

// the concrete implementation of service interface
type stubAddsvcService struct {
	logger log.Logger
}

// New return a new instance of the service.
// If you want to add service middleware this is the place to put them.
func New(logger log.Logger) (s AddsvcService) {
	var svc AddsvcService
	{
		svc = &stubAddsvcService{logger: logger}
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

// Implement the business logic of Add
func (ad *stubAddsvcService) Add(ctx context.Context, num1 Operand, num2 Operand) (rs float64, err error) {
	if num1.Missing() {
		return 0, fmt.Errorf("%w: num1", ErrMissingInput)
	}
	if num2.Missing() {
		return 0, fmt.Errorf("%w: num2", ErrMissingInput)
	}
	return calc.Round(calc.Add(num1.Float(), num2.Float())), nil
}
