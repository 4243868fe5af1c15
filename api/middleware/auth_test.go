package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/obinnaeze/renthaven-backend/pkg/auth"
	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	"github.com/obinnaeze/renthaven-backend/pkg/types"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "renthaven-test",
	ExpirationMinutes: 5,
}

type fakeSessionChecker struct {
	active map[string]bool
}

func (f *fakeSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	return f.active[accessID], nil
}

type fakeTypeReader struct {
	types map[string]enums.AccountType
}

func (f *fakeTypeReader) Get(_ context.Context, userID string) (enums.AccountType, error) {
	return f.types[userID], nil
}

func mintToken(t *testing.T, userID uuid.UUID, jti string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testJWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Email:  "t@example.com",
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	jti := uuid.NewString()
	checker := &fakeSessionChecker{active: map[string]bool{jti: true}}
	reader := &fakeTypeReader{types: map[string]enums.AccountType{userID.String(): enums.AccountTypeOwner}}

	var gotUserID string
	var gotType enums.AccountType
	handler := Auth(testJWT, checker, reader, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotType = AccountTypeFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/onboarding", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, userID, jti))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotUserID != userID.String() {
		t.Fatalf("user id = %q", gotUserID)
	}
	if gotType != enums.AccountTypeOwner {
		t.Fatalf("account type = %q", gotType)
	}
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	handler := Auth(testJWT, &fakeSessionChecker{active: map[string]bool{}}, nil, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler reached without credentials")
		}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"garbage", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/onboarding", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", rec.Code)
			}
			var envelope types.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if envelope.Error.Code == "" {
				t.Fatal("error code missing")
			}
		})
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	userID := uuid.New()
	jti := uuid.NewString()
	handler := Auth(testJWT, &fakeSessionChecker{active: map[string]bool{}}, nil, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler reached with revoked session")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/onboarding", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, userID, jti))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
