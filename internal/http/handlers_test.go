package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/virtline/number-sim/internal/core"
	httpapi "github.com/virtline/number-sim/internal/http"
	"github.com/virtline/number-sim/internal/storage"
)

const adminID = "6334711569"

func startAPI(t *testing.T) http.Handler {
	t.Helper()
	store, err := storage.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	ledger := core.NewLedger(store, adminID, 5, zerolog.Nop())
	gen := core.NewGenerator(store, nil, time.Second, zerolog.Nop())
	inbox := core.NewInbox(store, zerolog.Nop())
	svc := core.NewService(ledger, gen, inbox, zerolog.Nop())

	return httpapi.NewServer(svc, store).Router()
}

func TestSeenUserProvisionAndList(t *testing.T) {
	h := startAPI(t)

	// 1) first contact registers the user
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(`{"id":"100","display_name":"alice"}`))
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var user core.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	require.Equal(t, "alice", user.DisplayName)
	require.False(t, user.IsAdmin)

	// 2) provision a number
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/numbers", bytes.NewBufferString(`{"real":false}`))
	req.Header.Set("X-User-ID", "100")
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	var num core.Number
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &num))
	require.Equal(t, core.OriginVirtual, num.Origin)
	require.NotEmpty(t, num.Value)

	// 3) list numbers
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/numbers?user_id=100", nil)
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Items []core.Number `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Items, 1)
	require.Equal(t, num.Value, listing.Items[0].Value)

	// 4) fresh numbers start with an empty message sequence
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/numbers/"+num.Value+"/messages", nil)
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var msgs struct {
		Items []core.Message `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	require.Empty(t, msgs.Items)
}

func TestProvisionUnknownUser(t *testing.T) {
	h := startAPI(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/numbers", nil)
	req.Header.Set("X-User-ID", "ghost")
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "unknown_user")
}

func TestProvisionMissingUserHeader(t *testing.T) {
	h := startAPI(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/numbers", nil)
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProvisionQuotaExceeded(t *testing.T) {
	h := startAPI(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(`{"id":"100","display_name":"alice"}`))
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 5; i++ {
		w = httptest.NewRecorder()
		req = httptest.NewRequest("POST", "/numbers", nil)
		req.Header.Set("X-User-ID", "100")
		h.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/numbers", nil)
	req.Header.Set("X-User-ID", "100")
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "quota_exceeded")
}

func TestAdminHasNoQuota(t *testing.T) {
	h := startAPI(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(`{"id":"`+adminID+`","display_name":"boss"}`))
	h.ServeHTTP(w, req)
	var user core.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	require.True(t, user.IsAdmin)

	for i := 0; i < 8; i++ {
		w = httptest.NewRecorder()
		req = httptest.NewRequest("POST", "/numbers", nil)
		req.Header.Set("X-User-ID", adminID)
		h.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestRetireNumber(t *testing.T) {
	h := startAPI(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(`{"id":"100","display_name":"alice"}`))
	h.ServeHTTP(w, req)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/numbers", nil)
	req.Header.Set("X-User-ID", "100")
	h.ServeHTTP(w, req)
	var num core.Number
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &num))

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/numbers/"+num.Value, nil)
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/numbers/+10000000000", nil)
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	h := startAPI(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(`{"id":"100","display_name":"alice"}`))
	h.ServeHTTP(w, req)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/numbers", nil)
	req.Header.Set("X-User-ID", "100")
	h.ServeHTTP(w, req)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/stats", nil)
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var st core.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	require.Equal(t, 1, st.TotalUsers)
	require.Equal(t, 0, st.AdminCount)
	require.Equal(t, 1, st.TotalNumbersIssued)
}

func TestHealthEndpoints(t *testing.T) {
	h := startAPI(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}
