package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/utang/internal/auth"
	utangHttp "github.com/MrJamesThe3rd/utang/internal/http"
	ledgerHandler "github.com/MrJamesThe3rd/utang/internal/http/ledger"
	"github.com/MrJamesThe3rd/utang/internal/ledger"
	"github.com/MrJamesThe3rd/utang/internal/ledger/memory"
)

const secret = "test-secret"

var (
	ani  = uuid.New()
	budi = uuid.New()
)

func newRouter(t *testing.T, health func(context.Context) error) http.Handler {
	t.Helper()

	date := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	store := memory.New(
		ledger.Record{ID: uuid.New(), PayerID: ani, PayeeID: budi, Amount: 100, Description: "loan", Date: date},
		ledger.Record{ID: uuid.New(), PayerID: budi, PayeeID: ani, Amount: 40, Description: ledger.RepaymentMarker, Date: date.Add(time.Hour)},
	)

	return utangHttp.New(
		ledgerHandler.NewHandler(ledger.NewService(store)),
		auth.NewVerifier(secret, ""),
		utangHttp.Options{AllowedOrigins: []string{"*"}, Health: health},
	)
}

func token(t *testing.T, signingSecret string) string {
	t.Helper()

	tok, err := auth.NewSigner(signingSecret, "", time.Hour).Sign(auth.Viewer{Subject: ani.String(), Email: "ani@example.com"})
	require.NoError(t, err)

	return tok
}

func TestRouter_PairHistory(t *testing.T) {
	router := newRouter(t, nil)

	for _, prefix := range []string{"/api/v1/trx/", "/api/trx/"} {
		t.Run(prefix, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, prefix+ani.String()+"?destinationUserId="+budi.String(), nil)
			req.Header.Set("Authorization", "Bearer "+token(t, secret))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Transactions []struct {
					Type string `json:"type"`
				} `json:"transactions"`
				Total int64 `json:"total"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			require.Len(t, body.Transactions, 2)
			assert.Equal(t, "payment", body.Transactions[0].Type)
			assert.Equal(t, "receivable", body.Transactions[1].Type)
			assert.Equal(t, int64(60), body.Total)
		})
	}
}

func TestRouter_PairHistory_CounterpartView(t *testing.T) {
	router := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trx/"+budi.String()+"?destinationUserId="+ani.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token(t, secret))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":-60`)
}

func TestRouter_Unauthorized(t *testing.T) {
	type testCase struct {
		name   string
		header string
	}

	tests := []testCase{
		{name: "NoHeader"},
		{name: "WrongScheme", header: "Basic " + token(t, secret)},
		{name: "WrongSecret", header: "Bearer " + token(t, "other-secret")},
		{name: "Garbage", header: "Bearer not.a.token"},
	}

	router := newRouter(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/trx/"+ani.String()+"?destinationUserId="+budi.String(), nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	type testCase struct {
		name   string
		method string
		path   string
		header string
	}

	tests := []testCase{
		{name: "PostWithToken", method: http.MethodPost, path: "/api/v1/trx/", header: "Bearer " + token(t, secret)},
		{name: "PostWithoutToken", method: http.MethodPost, path: "/api/trx/"},
		{name: "DeleteWithoutToken", method: http.MethodDelete, path: "/api/v1/trx/"},
	}

	router := newRouter(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path+ani.String()+"?destinationUserId="+budi.String(), nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
			assert.JSONEq(t, `{"message":"Method Not Allowed"}`, rec.Body.String())
		})
	}
}

func TestRouter_MethodNotAllowed_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"message":"Method Not Allowed"}`, rec.Body.String())
}

func TestRouter_Health(t *testing.T) {
	type testCase struct {
		name       string
		health     func(context.Context) error
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "Ok",
			health:     func(context.Context) error { return nil },
			wantStatus: http.StatusOK,
		},
		{
			name:       "StoreDown",
			health:     func(context.Context) error { return ledger.ErrStorageUnavailable },
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(t, tt.health).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
