package support

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.SupportMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(db, config.SupportConfig{WhatsAppNumber: "+234 801 234 5678"}, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestContactPersistsAndLinks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	result, err := svc.Contact(ctx, userID, "My booking is stuck")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	if !strings.HasPrefix(result.WhatsAppLink, "https://wa.me/2348012345678?") {
		t.Fatalf("link = %q", result.WhatsAppLink)
	}
	if !strings.Contains(result.WhatsAppLink, "text=My+booking+is+stuck") {
		t.Fatalf("link missing prefilled text: %q", result.WhatsAppLink)
	}

	history, err := svc.History(ctx, userID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Body != "My booking is stuck" {
		t.Fatalf("history = %+v", history)
	}
}

func TestContactRejectsEmptyBody(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Contact(context.Background(), uuid.New(), "   ")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildWhatsAppLink(t *testing.T) {
	cases := []struct {
		name   string
		number string
		text   string
		want   string
	}{
		{"formatted number", "+1 (555) 010-9999", "hello there", "https://wa.me/15550109999?text=hello+there"},
		{"no text", "15550109999", "", "https://wa.me/15550109999"},
		{"escapes reserved characters", "15550109999", "a&b=c", "https://wa.me/15550109999?text=a%26b%3Dc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildWhatsAppLink(tc.number, tc.text); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
