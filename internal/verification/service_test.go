package verification

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// Tests run in dev mode so Save surfaces the generated code.
func newTestService(t *testing.T) Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.VerificationRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(NewRepository(db), config.VerificationConfig{MaxAttempts: 3}, true, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSaveGeneratesSixDigitCode(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Save(context.Background(), uuid.New(), enums.VerificationMethodPhone)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(result.DebugCode) != 6 {
		t.Fatalf("code = %q, want 6 digits", result.DebugCode)
	}
	if result.DebugCode[0] == '0' {
		t.Fatalf("code = %q, leading zero means it left the 6-digit range", result.DebugCode)
	}
	if result.Status != enums.VerificationStatusPending || result.Attempts != 0 {
		t.Fatalf("unexpected start state: %+v", result.StatusDTO)
	}
}

func TestSaveIDMethodHasNoCode(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Save(context.Background(), uuid.New(), enums.VerificationMethodID)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if result.DebugCode != "" {
		t.Fatalf("id method got a code: %q", result.DebugCode)
	}
}

func TestSaveRejectsUnknownMethod(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save(context.Background(), uuid.New(), enums.VerificationMethod("carrier-pigeon"))
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckWithoutRecord(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Check(context.Background(), uuid.New(), "123456")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckCountsAttempts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	start, err := svc.Save(ctx, userID, enums.VerificationMethodEmail)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	wrong := "000000"
	if wrong == start.DebugCode {
		wrong = "000001"
	}
	_, err = svc.Check(ctx, userID, wrong)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected invalid-code error, got %v", err)
	}
	status, err := svc.Status(ctx, userID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Attempts != 1 {
		t.Fatalf("attempts = %d after one miss, want 1", status.Attempts)
	}
	if status.LastAttemptAt == nil {
		t.Fatal("lastAttemptAt not stamped")
	}

	result, err := svc.Check(ctx, userID, start.DebugCode)
	if err != nil {
		t.Fatalf("check with right code: %v", err)
	}
	if !result.Verified || result.Attempts != 2 {
		t.Fatalf("result = %+v, want verified with 2 attempts", result)
	}
}

func TestCheckIdempotentWhenVerified(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	start, _ := svc.Save(ctx, userID, enums.VerificationMethodPhone)
	if _, err := svc.Check(ctx, userID, start.DebugCode); err != nil {
		t.Fatalf("first check: %v", err)
	}

	// Re-submitting anything after success must not move the counter.
	result, err := svc.Check(ctx, userID, "999999")
	if err != nil {
		t.Fatalf("check after verified: %v", err)
	}
	if !result.Verified || result.Attempts != 1 {
		t.Fatalf("result = %+v, want untouched attempts", result)
	}
}

func TestCheckLockout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	start, _ := svc.Save(ctx, userID, enums.VerificationMethodPhone)
	wrong := "000000"
	if wrong == start.DebugCode {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Check(ctx, userID, wrong); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
			t.Fatalf("miss %d: %v", i+1, err)
		}
	}

	// The right code no longer helps, and attempts stay at the cap.
	_, err := svc.Check(ctx, userID, start.DebugCode)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeLockout {
		t.Fatalf("expected lockout, got %v", err)
	}
	status, _ := svc.Status(ctx, userID)
	if status.Attempts != 3 {
		t.Fatalf("attempts = %d after lockout, want 3", status.Attempts)
	}
}

func TestSaveResetsLockout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	start, _ := svc.Save(ctx, userID, enums.VerificationMethodPhone)
	wrong := "000000"
	if wrong == start.DebugCode {
		wrong = "000001"
	}
	for i := 0; i < 3; i++ {
		svc.Check(ctx, userID, wrong)
	}

	restart, err := svc.Save(ctx, userID, enums.VerificationMethodPhone)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if restart.Attempts != 0 || restart.Status != enums.VerificationStatusPending {
		t.Fatalf("restart did not reset state: %+v", restart.StatusDTO)
	}

	result, err := svc.Check(ctx, userID, restart.DebugCode)
	if err != nil || !result.Verified {
		t.Fatalf("check after restart: result=%+v err=%v", result, err)
	}
}

func TestStatusHidesCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Save(ctx, userID, enums.VerificationMethodEmail); err != nil {
		t.Fatalf("save: %v", err)
	}
	status, err := svc.Status(ctx, userID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Method != enums.VerificationMethodEmail || status.Status != enums.VerificationStatusPending {
		t.Fatalf("unexpected status: %+v", status)
	}
}
