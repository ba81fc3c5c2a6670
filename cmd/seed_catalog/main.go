// seed_catalog carga el catálogo inicial desde un CSV exportado por el PDV anterior.
// Cada producto con stock > 0 recibe su movimiento "initial", así el ledger de inventario
// explica el stock desde el primer día.
//
// Uso: go run ./cmd/seed_catalog productos.csv [charset]
// charset por defecto UTF-8; los exports antiguos suelen venir en ISO-8859-1.
// Columnas (separador ';', con cabecera): id;nome;codigo;ean;unidade;preco_venda;preco_custo;estoque
// Los precios admiten "12,99" o "12.99".
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/caixa-pdv/internal/application/catalog"
	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/application/inventory"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/infrastructure/postgres"
	"github.com/jhoicas/caixa-pdv/pkg/config"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
	"github.com/jhoicas/caixa-pdv/pkg/money"
)

const seedOperator = "seed"

type catalogRow struct {
	product dto.CreateProductRequest
	stock   decimal.Decimal
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog productos.csv [charset]")
		os.Exit(2)
	}
	charset := ""
	if len(os.Args) > 2 {
		charset = os.Args[2]
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(f, charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	repos := postgres.NewRepos(pool)
	provider := catalog.NewProvider(repos.Products)
	stockUC := inventory.NewRegisterMovementUseCase(postgres.NewTxRunner(pool), repos, inventory.NoopLocker{}, log)

	var created, skipped int
	for i, row := range rows {
		p, err := provider.Create(ctx, row.product)
		if errors.Is(err, domain.ErrConflict) {
			skipped++
			log.Warn().Str("product_id", row.product.ID).Msg("producto ya existe, se omite")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Int("line", i+2).Msg("crear producto")
		}
		if row.stock.IsPositive() {
			_, err := stockUC.RegisterMovement(ctx, inventory.MovementInputDTO{
				UserID:    seedOperator,
				ProductID: p.ID,
				Type:      entity.StockMovementInitial,
				Quantity:  row.stock,
				Reason:    "carga inicial",
			})
			if err != nil {
				log.Fatal().Err(err).Str("product_id", p.ID).Msg("stock inicial")
			}
		}
		created++
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo cargado")
}

// parseCatalog lee el CSV con cabecera. charset vacío o UTF-8 no transforma la entrada.
func parseCatalog(r io.Reader, charset string) ([]catalogRow, error) {
	switch strings.ToUpper(strings.TrimSpace(charset)) {
	case "", "UTF-8", "UTF8":
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "WINDOWS-1252", "CP1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado %q", charset)
	}

	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 8

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	var rows []catalogRow
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (catalogRow, error) {
	sale, err := money.FromString(decimalText(rec[5], "0"))
	if err != nil {
		return catalogRow{}, err
	}
	cost, err := money.FromString(decimalText(rec[6], "0"))
	if err != nil {
		return catalogRow{}, err
	}
	stock, err := decimal.NewFromString(decimalText(rec[7], "0"))
	if err != nil {
		return catalogRow{}, fmt.Errorf("estoque inválido %q", rec[7])
	}
	if stock.IsNegative() {
		return catalogRow{}, fmt.Errorf("estoque negativo %q", rec[7])
	}
	return catalogRow{
		product: dto.CreateProductRequest{
			ID:           strings.TrimSpace(rec[0]),
			Name:         strings.TrimSpace(rec[1]),
			InternalCode: strings.TrimSpace(rec[2]),
			EAN:          strings.TrimSpace(rec[3]),
			Unit:         strings.ToUpper(strings.TrimSpace(rec[4])),
			SalePrice:    sale,
			CostPrice:    cost,
		},
		stock: stock,
	}, nil
}

// decimalText normaliza "1.234,56" y "12,99" al formato con punto.
func decimalText(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}
