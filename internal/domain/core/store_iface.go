package core

import (
	"context"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	CreateEmployee(ctx context.Context, emp NewEmployee) (int64, error)
	FindActiveByID(ctx context.Context, id int64) (Employee, bool, error)
	FindByID(ctx context.Context, id int64) (Employee, bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListActive(ctx context.Context) ([]Employee, error)
	UpdateSalary(ctx context.Context, id int64, base, hra, allowance decimal.Decimal) (bool, error)
	Deactivate(ctx context.Context, id int64) (bool, error)
}
