package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Employee is an external entity from the core pipeline's perspective: it is
// enrolled into campaigns and read, never written.
type Employee struct {
	Id         uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Department string
	OptedOut   bool
}

func (e Employee) FullName() string {
	return fmt.Sprintf("%s %s", e.FirstName, e.LastName)
}
