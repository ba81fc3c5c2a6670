// Package memory implementa los puertos de persistencia en memoria.
// Se usa en modo desarrollo (STORE_DRIVER=memory) y en los tests de casos de uso.
//
// Las transacciones son copy-on-write: Run toma el lock global, trabaja sobre una copia del
// estado y sólo la publica si fn termina sin error. Esto da atomicidad y aislamiento
// serializable (una transacción a la vez).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	seq            int64
	products       map[string]entity.Product
	stockMovements []entity.StockMovement
	sales          map[string]entity.Sale
	saleOrder      []string
	items          []entity.SaleItem
	payments       []entity.Payment
	sessions       map[string]entity.CashSession
	sessionOrder   []string
	cashMovements  []cashMovementRow
}

type cashMovementRow struct {
	seq int64
	m   entity.CashMovement
}

func newState() *state {
	return &state{
		products: make(map[string]entity.Product),
		sales:    make(map[string]entity.Sale),
		sessions: make(map[string]entity.CashSession),
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:            s.seq,
		products:       make(map[string]entity.Product, len(s.products)),
		stockMovements: append([]entity.StockMovement(nil), s.stockMovements...),
		sales:          make(map[string]entity.Sale, len(s.sales)),
		saleOrder:      append([]string(nil), s.saleOrder...),
		items:          append([]entity.SaleItem(nil), s.items...),
		payments:       append([]entity.Payment(nil), s.payments...),
		sessions:       make(map[string]entity.CashSession, len(s.sessions)),
		sessionOrder:   append([]string(nil), s.sessionOrder...),
		cashMovements:  append([]cashMovementRow(nil), s.cashMovements...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	return c
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// Store almacén en memoria. El valor cero no es usable; construir con New.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
}

// New construye un almacén vacío.
func New() *Store {
	return &Store{st: newState(), faults: make(map[string]error)}
}

// Run ejecuta fn sobre una copia del estado y la publica sólo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	v := &view{store: s, st: work, inTx: true}
	if err := fn(v.repos()); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada es atómica por sí misma).
func (s *Store) Repos() repository.TxRepos {
	return (&view{store: s}).repos()
}

// Reports devuelve el repositorio de reportes de solo lectura.
func (s *Store) Reports() repository.ReportRepository {
	return &reportRepo{v: &view{store: s}}
}

// SetFault hace que la operación op ("Sales.Create", "Sales.CreatePayment",
// "CashMovements.Create", "StockMovements.Create", "Stock.ApplyDelta") falle con err.
// err nil elimina la falla.
func (s *Store) SetFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// Counts número de filas por tabla (para verificar atomicidad).
type Counts struct {
	Sales          int
	SaleItems      int
	Payments       int
	StockMovements int
	CashMovements  int
	CashSessions   int
}

// Counts devuelve el número de filas confirmadas por tabla.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Sales:          len(s.st.sales),
		SaleItems:      len(s.st.items),
		Payments:       len(s.st.payments),
		StockMovements: len(s.st.stockMovements),
		CashMovements:  len(s.st.cashMovements),
		CashSessions:   len(s.st.sessions),
	}
}

// view enlaza los repositorios a un estado: el de la transacción en curso o el confirmado.
type view struct {
	store *Store
	st    *state
	inTx  bool
}

func (v *view) lock() *state {
	if v.inTx {
		return v.st
	}
	v.store.mu.Lock()
	return v.store.st
}

func (v *view) unlock() {
	if !v.inTx {
		v.store.mu.Unlock()
	}
}

// fault se llama con el lock tomado.
func (v *view) fault(op string) error {
	return v.store.faults[op]
}

func (v *view) repos() repository.TxRepos {
	return repository.TxRepos{
		Products:       &productRepo{v: v},
		Stock:          &stockRepo{v: v},
		StockMovements: &stockMovementRepo{v: v},
		Sales:          &saleRepo{v: v},
		CashSessions:   &cashSessionRepo{v: v},
		CashMovements:  &cashMovementRepo{v: v},
	}
}
