package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products       ProductRepository
	Stock          StockRepository
	StockMovements StockMovementRepository
	Sales          SaleRepository
	CashSessions   CashSessionRepository
	CashMovements  CashMovementRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// Ningún efecto de fn es visible fuera de la transacción antes del Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}
