package dbmodels

import (
	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/utils"
)

type DbEmployee struct {
	Id         uuid.UUID `db:"id"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Email      string    `db:"email"`
	Phone      string    `db:"phone"`
	Department string    `db:"department"`
	OptedOut   bool      `db:"opted_out"`
}

const TABLE_EMPLOYEES = "employees"

var SelectEmployeeColumns = utils.ColumnList[DbEmployee]()

func AdaptEmployee(db DbEmployee) (models.Employee, error) {
	return models.Employee{
		Id:         db.Id,
		FirstName:  db.FirstName,
		LastName:   db.LastName,
		Email:      db.Email,
		Phone:      db.Phone,
		Department: db.Department,
		OptedOut:   db.OptedOut,
	}, nil
}
