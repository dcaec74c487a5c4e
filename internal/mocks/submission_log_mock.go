// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/loan-request-service/internal/domain/model"
)

type MockSubmissionLog struct {
	mock.Mock
}

func (m *MockSubmissionLog) Save(ctx context.Context, record *model.SubmissionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
