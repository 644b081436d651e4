package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// Transaction runs operations in order. When one fails, compensations of the
// operations that already succeeded run in reverse order.
type Transaction struct {
	operations    []Operation
	compensations map[int]Compensation
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{compensations: make(map[int]Compensation)}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

// AddCompensation attaches an undo step to the most recently added operation.
func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	if len(t.operations) == 0 {
		return
	}
	t.compensations[len(t.operations)-1] = Compensation{name, fn}
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		comp, ok := t.compensations[i]
		if !ok {
			continue
		}
		if err := comp.Fn(ctx); err != nil {
			slog.Error("compensation failed, data may be inconsistent", "compensation", comp.Name, "err", err)
		}
	}
}
