package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories"
)

type EmployeeRepository struct {
	mock.Mock
}

func (r *EmployeeRepository) GetEmployeeById(ctx context.Context, exec repositories.Executor,
	employeeId uuid.UUID,
) (models.Employee, error) {
	args := r.Called(ctx, exec, employeeId)
	return args.Get(0).(models.Employee), args.Error(1)
}

func (r *EmployeeRepository) ListEmployeesByIds(ctx context.Context, exec repositories.Executor,
	employeeIds []uuid.UUID,
) ([]models.Employee, error) {
	args := r.Called(ctx, exec, employeeIds)
	return args.Get(0).([]models.Employee), args.Error(1)
}
