package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/splitledger/internal/logger"
	adapter "github.com/splitledger/splitledger/internal/logger/adapter/fiber"
)

// accessLine is the subset of the access log json checked here.
type accessLine struct {
	Status    int     `json:"status"`
	URI       string  `json:"URI"`
	Method    string  `json:"method"`
	Host      string  `json:"host"`
	RequestID string  `json:"request_id"`
	UserID    *uint64 `json:"user_id"`
}

func consoleConfig() adapter.Config {
	return adapter.Config{
		Config: logger.Log{
			EnableAccessLogToConsole: true,
			DisableCheckAlive:        true,
			Console:                  logger.Console{Enabled: true},
		},
		CheckAliveURI: "/checkalive",
	}
}

func TestNew(t *testing.T) {
	userID := uint64(7)

	tests := []struct {
		name       string
		config     adapter.Config
		targetPath string
		want       *accessLine
	}{
		{
			name:       "console disabled no output",
			targetPath: "/api/group",
		},
		{
			name:       "authenticated request logs user and request id",
			config:     consoleConfig(),
			targetPath: "/api/group?brief=true",
			want: &accessLine{
				Status:    fiber.StatusOK,
				URI:       "/api/group?brief=true",
				Method:    fiber.MethodGet,
				Host:      "example.com",
				RequestID: "req-1",
				UserID:    &userID,
			},
		},
		{
			name:       "unknown route",
			config:     consoleConfig(),
			targetPath: "/api//unknown",
			want: &accessLine{
				Status:    fiber.StatusNotFound,
				URI:       "/api//unknown",
				Method:    fiber.MethodGet,
				Host:      "example.com",
				RequestID: "req-1",
			},
		},
		{
			name:       "check alive is not logged",
			config:     consoleConfig(),
			targetPath: "/checkalive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := testMiddlewareHelper(t, tt.targetPath, tt.config)

			if tt.want == nil {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))

			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Host, got.Host)
			assert.Equal(t, tt.want.RequestID, got.RequestID)
			assert.Equal(t, tt.want.UserID, got.UserID)
		})
	}
}

func testMiddlewareHelper(t *testing.T, targetPath string, adapterConfig adapter.Config) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-1")
		return c.Next()
	})
	app.Use(adapter.New(adapterConfig))

	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/api/group", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint64(7))
		return c.JSON(fiber.Map{"message": "Success"})
	})

	_, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), 100000)

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr
	out := <-outC

	require.NoError(t, testErr)

	return out
}
