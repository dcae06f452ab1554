package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(f *fixture) *fiber.App {
	app := fiber.New()

	app.Get("/whoami", RequireSession(f.service), func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}

		return c.SendString(strconv.FormatUint(userID, 10))
	})

	return app
}

func TestRequireSession(t *testing.T) {
	f := newFixture(t)
	app := newTestApp(f)

	testCases := []struct {
		name            string
		cookie          *http.Cookie
		expectedStatus  int
		expectedBody    string
		expectedMessage string
	}{
		{
			name:           "valid session",
			cookie:         &http.Cookie{Name: "session_id", Value: "valid"},
			expectedStatus: fiber.StatusOK,
			expectedBody:   strconv.FormatUint(f.active.ID, 10),
		},
		{
			name:            "no cookie",
			expectedStatus:  fiber.StatusUnauthorized,
			expectedMessage: "Invalid session_id cookie",
		},
		{
			name:            "cookie with another name",
			cookie:          &http.Cookie{Name: "sid", Value: "valid"},
			expectedStatus:  fiber.StatusUnauthorized,
			expectedMessage: "Invalid session_id cookie",
		},
		{
			name:            "unknown session",
			cookie:          &http.Cookie{Name: "session_id", Value: "nope"},
			expectedStatus:  fiber.StatusUnauthorized,
			expectedMessage: "Invalid session_id cookie",
		},
		{
			name:            "disabled user",
			cookie:          &http.Cookie{Name: "session_id", Value: "disabled"},
			expectedStatus:  fiber.StatusUnauthorized,
			expectedMessage: "Invalid session_id cookie",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tc.expectedMessage == "" {
				assert.Equal(t, tc.expectedBody, string(body))
				return
			}

			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, tc.expectedMessage, payload["message"])
		})
	}
}

func TestRequireSessionStorageDown(t *testing.T) {
	f := newFixture(t)
	app := newTestApp(f)

	f.storage.err = errStorageDown

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "valid"})

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Internal server error", payload["message"])
}
