package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.StockRepository         = (*stockRepo)(nil)
	_ repository.StockMovementRepository = (*stockMovementRepo)(nil)
	_ repository.SaleRepository          = (*saleRepo)(nil)
	_ repository.CashSessionRepository   = (*cashSessionRepo)(nil)
	_ repository.CashMovementRepository  = (*cashMovementRepo)(nil)
)

// ── Productos ─────────────────────────────────────────────────────────────────

type productRepo struct{ v *view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	st := r.v.lock()
	defer r.v.unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := st.products[p.ID]; ok {
		return fmt.Errorf("producto %s: %w", p.ID, domain.ErrConflict)
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	st.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	st := r.v.lock()
	defer r.v.unlock()
	p, ok := st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Update modifica datos de catálogo. El stock sólo cambia vía movimientos.
func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	st := r.v.lock()
	defer r.v.unlock()
	cur, ok := st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = p.Name
	cur.InternalCode = p.InternalCode
	cur.EAN = p.EAN
	cur.Unit = p.Unit
	cur.SalePrice = p.SalePrice
	cur.CostPrice = p.CostPrice
	cur.UpdatedAt = time.Now()
	st.products[p.ID] = cur
	return nil
}

func (r *productRepo) List(_ context.Context) ([]*entity.Product, error) {
	st := r.v.lock()
	defer r.v.unlock()
	list := make([]*entity.Product, 0, len(st.products))
	for _, p := range st.products {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ── Stock ─────────────────────────────────────────────────────────────────────

type stockRepo struct{ v *view }

func (r *stockRepo) GetForUpdate(_ context.Context, productID string) (decimal.Decimal, error) {
	st := r.v.lock()
	defer r.v.unlock()
	p, ok := st.products[productID]
	if !ok {
		return decimal.Zero, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return p.StockOnHand, nil
}

func (r *stockRepo) ApplyDelta(_ context.Context, productID string, delta decimal.Decimal) (decimal.Decimal, error) {
	st := r.v.lock()
	defer r.v.unlock()
	if err := r.v.fault("Stock.ApplyDelta"); err != nil {
		return decimal.Zero, err
	}
	p, ok := st.products[productID]
	if !ok {
		return decimal.Zero, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	p.StockOnHand = p.StockOnHand.Add(delta)
	p.UpdatedAt = time.Now()
	st.products[productID] = p
	return p.StockOnHand, nil
}

func (r *stockRepo) Set(_ context.Context, productID string, qty decimal.Decimal) error {
	st := r.v.lock()
	defer r.v.unlock()
	p, ok := st.products[productID]
	if !ok {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	p.StockOnHand = qty
	p.UpdatedAt = time.Now()
	st.products[productID] = p
	return nil
}

// ── Movimientos de stock ──────────────────────────────────────────────────────

type stockMovementRepo struct{ v *view }

func (r *stockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	st := r.v.lock()
	defer r.v.unlock()
	if err := r.v.fault("StockMovements.Create"); err != nil {
		return err
	}
	if _, ok := st.products[m.ProductID]; !ok {
		return fmt.Errorf("movimiento de stock: producto %s: %w", m.ProductID, domain.ErrNotFound)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	st.stockMovements = append(st.stockMovements, *m)
	return nil
}

func (r *stockMovementRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	return r.filter(func(m entity.StockMovement) bool { return m.ProductID == productID }), nil
}

func (r *stockMovementRepo) ListByReference(_ context.Context, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	return r.filter(func(m entity.StockMovement) bool {
		return m.ReferenceType == referenceType && m.ReferenceID == referenceID
	}), nil
}

func (r *stockMovementRepo) ListAll(_ context.Context) ([]*entity.StockMovement, error) {
	return r.filter(func(entity.StockMovement) bool { return true }), nil
}

func (r *stockMovementRepo) filter(keep func(entity.StockMovement) bool) []*entity.StockMovement {
	st := r.v.lock()
	defer r.v.unlock()
	var list []*entity.StockMovement
	for _, m := range st.stockMovements {
		if keep(m) {
			m := m
			list = append(list, &m)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.Before(list[j].Timestamp) })
	return list
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type saleRepo struct{ v *view }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	st := r.v.lock()
	defer r.v.unlock()
	if err := r.v.fault("Sales.Create"); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if _, ok := st.sales[s.ID]; ok {
		return fmt.Errorf("venta %s: %w", s.ID, domain.ErrConflict)
	}
	if s.ClientSaleID != "" {
		for _, other := range st.sales {
			if other.ClientSaleID == s.ClientSaleID {
				return fmt.Errorf("client_sale_id %s: %w", s.ClientSaleID, domain.ErrConflict)
			}
		}
	}
	if _, ok := st.sessions[s.CashSessionID]; !ok {
		return fmt.Errorf("venta: sesión %s: %w", s.CashSessionID, domain.ErrNotFound)
	}
	header := *s
	header.Items = nil
	header.Payments = nil
	st.sales[s.ID] = header
	st.saleOrder = append(st.saleOrder, s.ID)
	return nil
}

func (r *saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	st := r.v.lock()
	defer r.v.unlock()
	if err := r.v.fault("Sales.CreateItem"); err != nil {
		return err
	}
	if _, ok := st.sales[item.SaleID]; !ok {
		return fmt.Errorf("línea: venta %s: %w", item.SaleID, domain.ErrNotFound)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	st.items = append(st.items, *item)
	return nil
}

func (r *saleRepo) CreatePayment(_ context.Context, p *entity.Payment) error {
	st := r.v.lock()
	defer r.v.unlock()
	if err := r.v.fault("Sales.CreatePayment"); err != nil {
		return err
	}
	if _, ok := st.sales[p.SaleID]; !ok {
		return fmt.Errorf("pago: venta %s: %w", p.SaleID, domain.ErrNotFound)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	st.payments = append(st.payments, *p)
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	st := r.v.lock()
	defer r.v.unlock()
	s, ok := st.sales[id]
	if !ok {
		return nil, nil
	}
	return withChildren(st, s), nil
}

func (r *saleRepo) GetByClientSaleID(_ context.Context, clientSaleID string) (*entity.Sale, error) {
	st := r.v.lock()
	defer r.v.unlock()
	if clientSaleID == "" {
		return nil, nil
	}
	for _, s := range st.sales {
		if s.ClientSaleID == clientSaleID {
			return withChildren(st, s), nil
		}
	}
	return nil, nil
}

func withChildren(st *state, s entity.Sale) *entity.Sale {
	for _, it := range st.items {
		if it.SaleID == s.ID {
			s.Items = append(s.Items, it)
		}
	}
	for _, p := range st.payments {
		if p.SaleID == s.ID {
			s.Payments = append(s.Payments, p)
		}
	}
	return &s
}

// ── Sesiones de caja ──────────────────────────────────────────────────────────

type cashSessionRepo struct{ v *view }

func (r *cashSessionRepo) Create(_ context.Context, s *entity.CashSession) error {
	st := r.v.lock()
	defer r.v.unlock()
	for _, other := range st.sessions {
		if other.IsOpen {
			return fmt.Errorf("sesión %s abierta: %w", other.ID, domain.ErrConflict)
		}
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	if s.OpenedAt.IsZero() {
		s.OpenedAt = now
	}
	s.IsOpen = true
	s.CreatedAt = now
	s.UpdatedAt = now
	st.sessions[s.ID] = *s
	st.sessionOrder = append(st.sessionOrder, s.ID)
	return nil
}

func (r *cashSessionRepo) GetByID(_ context.Context, id string) (*entity.CashSession, error) {
	st := r.v.lock()
	defer r.v.unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// GetForUpdate no necesita bloqueo adicional: la transacción en memoria ya es exclusiva.
func (r *cashSessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.GetByID(ctx, id)
}

func (r *cashSessionRepo) GetOpen(_ context.Context) (*entity.CashSession, error) {
	st := r.v.lock()
	defer r.v.unlock()
	var found *entity.CashSession
	for _, id := range st.sessionOrder {
		s := st.sessions[id]
		if !s.IsOpen {
			continue
		}
		if found == nil || !s.OpenedAt.Before(found.OpenedAt) {
			s := s
			found = &s
		}
	}
	return found, nil
}

func (r *cashSessionRepo) Close(_ context.Context, s *entity.CashSession) error {
	st := r.v.lock()
	defer r.v.unlock()
	cur, ok := st.sessions[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.IsOpen {
		return domain.ErrAlreadyClosed
	}
	cur.IsOpen = false
	cur.ClosedAt = s.ClosedAt
	cur.PhysicalCountAtClose = s.PhysicalCountAtClose
	cur.ExpectedBalanceAtClose = s.ExpectedBalanceAtClose
	cur.DifferenceAtClose = s.DifferenceAtClose
	cur.UpdatedAt = time.Now()
	st.sessions[s.ID] = cur
	return nil
}

// ── Movimientos de caja ───────────────────────────────────────────────────────

type cashMovementRepo struct{ v *view }

func (r *cashMovementRepo) Create(_ context.Context, m *entity.CashMovement) error {
	st := r.v.lock()
	defer r.v.unlock()
	if err := r.v.fault("CashMovements.Create"); err != nil {
		return err
	}
	if _, ok := st.sessions[m.CashSessionID]; !ok {
		return fmt.Errorf("movimiento de caja: sesión %s: %w", m.CashSessionID, domain.ErrNotFound)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now()
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	m.CreatedAt = now
	st.cashMovements = append(st.cashMovements, cashMovementRow{seq: st.next(), m: *m})
	return nil
}

func (r *cashMovementRepo) ListBySession(_ context.Context, sessionID string) ([]*entity.CashMovement, error) {
	st := r.v.lock()
	defer r.v.unlock()
	rows := make([]cashMovementRow, 0)
	for _, row := range st.cashMovements {
		if row.m.CashSessionID == sessionID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].m.Timestamp.Equal(rows[j].m.Timestamp) {
			return rows[i].seq < rows[j].seq
		}
		return rows[i].m.Timestamp.Before(rows[j].m.Timestamp)
	})
	list := make([]*entity.CashMovement, 0, len(rows))
	for _, row := range rows {
		m := row.m
		list = append(list, &m)
	}
	return list, nil
}
