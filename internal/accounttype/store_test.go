package accounttype

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	redisclient "github.com/obinnaeze/renthaven-backend/pkg/redis"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	srv := miniredis.RunT(t)
	store, err := NewStore(redisclient.NewFromAddr(srv.Addr()))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func cookieNamed(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestSetThenGetAndCookieAgree(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	rec := httptest.NewRecorder()

	if err := store.Set(ctx, rec, "u1", enums.AccountTypeOwner); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != enums.AccountTypeOwner {
		t.Fatalf("store reads %q", got)
	}

	cookie := cookieNamed(t, rec, CookieName)
	if cookie == nil {
		t.Fatal("cookie not written")
	}
	if cookie.Value != string(got) {
		t.Fatalf("cookie %q and store %q diverge", cookie.Value, got)
	}
	if cookie.Path != "/" || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes %+v", cookie)
	}
	if cookie.MaxAge != 365*24*60*60 {
		t.Fatalf("unexpected max-age %d", cookie.MaxAge)
	}
}

func TestGetUnwrittenIsUnsetNotError(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("absence must not error: %v", err)
	}
	if got != enums.AccountTypeUnset {
		t.Fatalf("expected unset, got %q", got)
	}
}

func TestSetIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := store.Set(ctx, httptest.NewRecorder(), "u1", enums.AccountTypeRenter); err != nil {
			t.Fatalf("set %d: %v", i, err)
		}
	}
	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != enums.AccountTypeRenter {
		t.Fatalf("expected renter, got %q", got)
	}
}

func TestSetRejectsUnknownType(t *testing.T) {
	store := newTestStore(t)
	err := store.Set(context.Background(), httptest.NewRecorder(), "u1", enums.AccountType("admin"))
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClearResetsBothLocations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, httptest.NewRecorder(), "u1", enums.AccountTypeOwner); err != nil {
		t.Fatalf("set: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := store.Clear(ctx, rec, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != enums.AccountTypeUnset {
		t.Fatalf("expected unset after clear, got %q", got)
	}

	cookie := cookieNamed(t, rec, CookieName)
	if cookie == nil || cookie.MaxAge != -1 {
		t.Fatalf("expected expiring cookie, got %+v", cookie)
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if FromRequest(req) != enums.AccountTypeUnset {
		t.Fatal("missing cookie should read unset")
	}

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "owner"})
	if FromRequest(req) != enums.AccountTypeOwner {
		t.Fatal("owner cookie should read owner")
	}

	tampered := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	tampered.AddCookie(&http.Cookie{Name: CookieName, Value: "superuser"})
	if FromRequest(tampered) != enums.AccountTypeUnset {
		t.Fatal("tampered cookie should degrade to unset")
	}
}

func TestRedirectTargetForIsTotal(t *testing.T) {
	cases := map[enums.AccountType]string{
		enums.AccountTypeRenter:  "/listings",
		enums.AccountTypeOwner:   "/dashboard/owner",
		enums.AccountTypeUnset:   "/get-started",
		enums.AccountType("???"): "/get-started",
	}
	for accountType, want := range cases {
		if got := RedirectTargetFor(accountType); got != want {
			t.Fatalf("RedirectTargetFor(%q)=%q want %q", accountType, got, want)
		}
	}
}
