// token emite un JWT de operador firmado con JWT_SECRET, para terminales y pruebas locales.
//
// Uso: go run ./cmd/token <operatorId> [operador|supervisor] [terminalId] [minutos]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/caixa-pdv/pkg/config"
	"github.com/jhoicas/caixa-pdv/pkg/jwt"
)

const defaultExpMinutes = 12 * 60

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: token <operatorId> [operador|supervisor] [terminalId] [minutos]")
		os.Exit(2)
	}
	operatorID := os.Args[1]
	role := jwt.RoleOperator
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	if role != jwt.RoleOperator && role != jwt.RoleSupervisor {
		fmt.Fprintf(os.Stderr, "rol inválido %q\n", role)
		os.Exit(2)
	}
	terminalID := ""
	if len(os.Args) > 3 {
		terminalID = os.Args[3]
	}
	expMinutes := defaultExpMinutes
	if len(os.Args) > 4 {
		n, err := strconv.Atoi(os.Args[4])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "minutos inválidos %q\n", os.Args[4])
			os.Exit(2)
		}
		expMinutes = n
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no definido")
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, operatorID, terminalID, role, cfg.JWT.Issuer, expMinutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
