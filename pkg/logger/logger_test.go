package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/caixa-pdv/pkg/logger"
)

func TestNew_Nivel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"":      zerolog.InfoLevel,
		"nada":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		l := logger.New(logger.Config{Env: "production", Level: in})
		assert.Equal(t, want, l.Zerolog().GetLevel(), in)
	}
}

func TestNamed_ConservaNivel(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "error"}).Named("sale")
	assert.Equal(t, zerolog.ErrorLevel, l.Zerolog().GetLevel())
}
