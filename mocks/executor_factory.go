package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hookwise/hookwise-backend/repositories"
)

type ExecutorFactory struct {
	mock.Mock
	ExecMock *Executor
}

func NewExecutorFactory() *ExecutorFactory {
	return &ExecutorFactory{ExecMock: new(Executor)}
}

func (f *ExecutorFactory) NewExecutor() repositories.Executor {
	return f.ExecMock
}

type TransactionFactory struct {
	mock.Mock
	TxMock *Transaction
}

func NewTransactionFactory() *TransactionFactory {
	return &TransactionFactory{TxMock: new(Transaction)}
}

func (t *TransactionFactory) Transaction(ctx context.Context,
	fn func(tx repositories.Transaction) error,
) error {
	if err := fn(t.TxMock); err != nil {
		return err
	}
	return nil
}
