package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories/dbmodels"
)

func (repo HookwiseDbRepository) GetEmployeeById(ctx context.Context, exec Executor,
	employeeId uuid.UUID,
) (models.Employee, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectEmployeeColumns...).
		From(dbmodels.TABLE_EMPLOYEES).
		Where("id = ?", employeeId)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptEmployee)
}

func (repo HookwiseDbRepository) ListEmployeesByIds(ctx context.Context, exec Executor,
	employeeIds []uuid.UUID,
) ([]models.Employee, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectEmployeeColumns...).
		From(dbmodels.TABLE_EMPLOYEES).
		Where(squirrel.Eq{"id": employeeIds}).
		OrderBy("last_name", "first_name")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptEmployee)
}
