package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/obinnaeze/renthaven-backend/pkg/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return NewFromAddr(srv.Addr())
}

func TestSetGetDel(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, client.AccountTypeKey("u1"), "owner", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := client.Get(ctx, client.AccountTypeKey("u1"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "owner" {
		t.Fatalf("unexpected value %q", value)
	}

	if err := client.Del(ctx, client.AccountTypeKey("u1")); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, client.AccountTypeKey("u1")); err != Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSetNXOnlyFirstWins(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	ok, err := client.SetNX(ctx, "rh:test:nx", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first setnx: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "rh:test:nx", "b", time.Minute)
	if err != nil {
		t.Fatalf("second setnx: %v", err)
	}
	if ok {
		t.Fatal("second setnx should not win")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.AccountTypeKey("u1"); got != "rh:account_type:u1" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := client.AccessSessionKey("abc"); got != "rh:session:access:abc" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := client.ReminderKey("u1", "last", "page-visit"); got != "rh:reminder:u1:last:page-visit" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}
