// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/loan-request-service/internal/domain/model"
)

type MockLoanAPI struct {
	mock.Mock
}

func (m *MockLoanAPI) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockLoanAPI) CreateLoan(ctx context.Context, req model.LoanRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
