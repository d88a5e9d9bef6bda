package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mellow-bot/mellow/internal/logger"
	adapter "github.com/mellow-bot/mellow/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP     string `json:"ip"`
	Status int    `json:"status"`
	URI    string `json:"uri"`
	Method string `json:"method"`
	Host   string `json:"host"`
	Domain string `json:"domain"`
	Error  string `json:"error"`
}

func consoleLog() logger.Log {
	return logger.Log{
		EnableAccessLogToConsole: true,
		DisableCheckAlive:        true,
		Console:                  logger.Console{Enabled: true},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		log    logger.Log
		target string
		want   *accessLine
	}{
		{
			name:   "console disabled writes nothing",
			target: "/",
		},
		{
			name:   "root",
			log:    consoleLog(),
			target: "/",
			want:   &accessLine{IP: "0.0.0.0", Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:   "raw uri with query",
			log:    consoleLog(),
			target: "//missing?x=1",
			want:   &accessLine{IP: "0.0.0.0", Status: fiber.StatusNotFound, URI: "//missing?x=1", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:   "domain param",
			log:    consoleLog(),
			target: "/api/settings/bot",
			want: &accessLine{
				IP: "0.0.0.0", Status: fiber.StatusOK, URI: "/api/settings/bot",
				Method: fiber.MethodGet, Host: "example.com", Domain: "bot",
			},
		},
		{
			name:   "handler error",
			log:    consoleLog(),
			target: "/fail",
			want: &accessLine{
				IP: "0.0.0.0", Status: fiber.StatusTeapot, URI: "/fail",
				Method: fiber.MethodGet, Host: "example.com", Error: "short and stout",
			},
		},
		{
			name:   "checkalive skipped",
			log:    consoleLog(),
			target: "/checkalive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			app := fiber.New()
			app.Use(adapter.New(adapter.Config{
				Log:      tt.log,
				Output:   &out,
				SkipURIs: []string{"/checkalive"},
			}))
			app.Get("/", func(c *fiber.Ctx) error {
				return c.SendString("mellow")
			})
			app.Get("/checkalive", func(c *fiber.Ctx) error {
				return c.SendString("OK")
			})
			app.Get("/fail", func(_ *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTeapot, "short and stout")
			})
			app.Get("/api/settings/:domain", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"domain": c.Params("domain")})
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil), -1)
			require.NoError(t, err)
			_ = resp.Body.Close()

			if tt.want == nil {
				assert.Empty(t, out.String())

				return
			}

			var got accessLine
			require.NoError(t, json.Unmarshal(out.Bytes(), &got), out.String())
			assert.Equal(t, *tt.want, got)
		})
	}
}
