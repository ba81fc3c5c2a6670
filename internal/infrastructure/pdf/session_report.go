// Package pdf genera el comprobante impreso de cierre de caja.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Fechamento de caixa  │  Sessão + Estado            │
//	│  Operador / Abertura / Fechamento                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Hora | Tipo | Descrição | Valor                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAIS: Fundo / Entradas / Saídas / Esperado / Diferença   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR com o id da sessão                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/caixa-pdv/internal/application/cash"
	"github.com/jhoicas/caixa-pdv/internal/application/reports"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/pkg/money"
)

var _ reports.SessionReportRenderer = (*MarotoSessionReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 20, Blue: 20}
)

const dateTimeLayout = "02/01/2006 15:04"

var movementLabels = map[string]string{
	entity.CashMovementSaleInflow: "Venda",
	entity.CashMovementSuprimento: "Suprimento",
	entity.CashMovementSangria:    "Sangria",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSessionReport implementa reports.SessionReportRenderer usando Maroto v2.
type MarotoSessionReport struct {
	storeName string
	loc       *time.Location
}

// NewMarotoSessionReport construye el generador. loc nil = hora local del proceso.
func NewMarotoSessionReport(storeName string, loc *time.Location) *MarotoSessionReport {
	if loc == nil {
		loc = time.Local
	}
	return &MarotoSessionReport{storeName: storeName, loc: loc}
}

// RenderSessionReport genera el PDF y devuelve sus bytes.
func (g *MarotoSessionReport) RenderSessionReport(_ context.Context, report *reports.SessionReport) ([]byte, error) {
	if report == nil || report.Summary == nil || report.Summary.Session == nil {
		return nil, errors.New("pdf: reporte sin sesión")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Fechamento de caixa", true).
		WithAuthor(nonEmpty(g.storeName, "caixa-pdv"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.sessionRow(report.Summary.Session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.movementRows(report.Movements) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(report.Summary)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report.Summary.Session.ID, report.GeneratedAt.In(g.loc)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoSessionReport) headerRow(report *reports.SessionReport) core.Row {
	session := report.Summary.Session
	state := "ABERTA"
	if !session.IsOpen {
		state = "FECHADA"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.storeName, "Caixa"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Relatório de fechamento de caixa", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SESSÃO "+state, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(session.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func (g *MarotoSessionReport) sessionRow(session *entity.CashSession) core.Row {
	closed := "—"
	if session.ClosedAt != nil {
		closed = session.ClosedAt.In(g.loc).Format(dateTimeLayout)
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Operador: %s   |   Abertura: %s   |   Fechamento: %s",
				nonEmpty(session.OperatorID, "—"),
				session.OpenedAt.In(g.loc).Format(dateTimeLayout),
				closed,
			), props.Text{Size: 8, Top: 3, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Hora", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Descrição", 5, align.Left),
		h("Valor", 3, align.Right),
	)
}

func (g *MarotoSessionReport) movementRows(movements []*entity.CashMovement) []core.Row {
	if len(movements) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sem movimentos", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(movements))
	for _, m := range movements {
		valueProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if m.Direction == entity.DirectionOut {
			valueProps.Color = colorRed
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(m.Timestamp.In(g.loc).Format("15:04:05"),
				props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(movementLabels[m.Type], m.Type),
				props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(nonEmpty(m.Description, "—"),
				props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(FormatBRL(m.Signed()), valueProps)),
		))
	}
	return result
}

func totalsRows(summary *cash.Summary) []core.Row {
	session := summary.Session
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(c money.Cents) core.Component {
		return text.New(FormatBRL(c), props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	entry := func(l string, c money.Cents) core.Row {
		return row.New(5).Add(col.New(5), col.New(4).Add(label(l)), col.New(3).Add(value(c)))
	}

	rows := []core.Row{
		entry("Fundo de troco:", session.InitialBalance),
		entry("Entradas:", summary.Totals.In),
		entry("Saídas:", summary.Totals.Out),
	}
	expected := summary.RunningBalance
	if session.ExpectedBalanceAtClose != nil {
		expected = *session.ExpectedBalanceAtClose
	}
	rows = append(rows, row.New(7).Add(
		col.New(5),
		col.New(4).Add(text.New("SALDO ESPERADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 1,
		})),
		col.New(3).Add(text.New(FormatBRL(expected), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 1,
		})),
	))
	if session.PhysicalCountAtClose != nil && session.DifferenceAtClose != nil {
		rows = append(rows,
			entry("Contagem física:", *session.PhysicalCountAtClose),
			entry("Diferença:", *session.DifferenceAtClose),
		)
	}
	return rows
}

func footerRow(sessionID string, generatedAt time.Time) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(sessionID, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Sessão "+sessionID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New("Gerado em "+generatedAt.Format(dateTimeLayout), props.Text{
				Size: 8, Top: 12, Left: 3, Color: colorGray,
			}),
			text.New("Confira o valor em espécie antes de assinar.", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 22, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formatea centavos como moneda brasileña. Ej: 123456 → "R$ 1.234,56", -50 → "-R$ 0,50".
func FormatBRL(c money.Cents) string {
	v := c.Int64()
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, brl.Sprintf("%d", v/100), v%100)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
