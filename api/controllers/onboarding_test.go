package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/api/middleware"
	"github.com/obinnaeze/renthaven-backend/internal/onboarding"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

type testOnboardingService struct {
	getFn      func(ctx context.Context, userID uuid.UUID) (*onboarding.RecordDTO, error)
	saveFn     func(ctx context.Context, userID uuid.UUID, data onboarding.StepData, step int) (*onboarding.RecordDTO, error)
	completeFn func(ctx context.Context, userID uuid.UUID, data onboarding.StepData) (*onboarding.RecordDTO, error)
	progressFn func(ctx context.Context, userID uuid.UUID) (*onboarding.ProgressDTO, error)
}

func (s *testOnboardingService) Get(ctx context.Context, userID uuid.UUID) (*onboarding.RecordDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, userID)
	}
	return nil, nil
}

func (s *testOnboardingService) Save(ctx context.Context, userID uuid.UUID, data onboarding.StepData, step int) (*onboarding.RecordDTO, error) {
	if s.saveFn != nil {
		return s.saveFn(ctx, userID, data, step)
	}
	return nil, nil
}

func (s *testOnboardingService) Complete(ctx context.Context, userID uuid.UUID, data onboarding.StepData) (*onboarding.RecordDTO, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, userID, data)
	}
	return nil, nil
}

func (s *testOnboardingService) Progress(ctx context.Context, userID uuid.UUID) (*onboarding.ProgressDTO, error) {
	if s.progressFn != nil {
		return s.progressFn(ctx, userID)
	}
	return nil, nil
}

type testTypeWriter struct {
	setCalls int
	lastUser string
	lastType enums.AccountType
}

func (w *testTypeWriter) Set(_ context.Context, _ http.ResponseWriter, userID string, accountType enums.AccountType) error {
	w.setCalls++
	w.lastUser = userID
	w.lastType = accountType
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestCompleteOnboardingSetsAccountType(t *testing.T) {
	userID := uuid.New()
	svc := &testOnboardingService{
		completeFn: func(_ context.Context, uid uuid.UUID, _ onboarding.StepData) (*onboarding.RecordDTO, error) {
			return &onboarding.RecordDTO{UserID: uid, Step: 5, UserType: "renter"}, nil
		},
	}
	writer := &testTypeWriter{}

	req := authedRequest(http.MethodPost, "/api/v1/onboarding/complete", `{"agreedToTerms":true}`, userID)
	resp := httptest.NewRecorder()
	CompleteOnboarding(svc, writer, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if writer.setCalls != 1 {
		t.Fatalf("expected one account type write, got %d", writer.setCalls)
	}
	if writer.lastUser != userID.String() {
		t.Fatalf("unexpected user %s", writer.lastUser)
	}
	if writer.lastType != enums.AccountTypeRenter {
		t.Fatalf("unexpected type %s", writer.lastType)
	}
}

func TestCompleteOnboardingSkipsWriteWithoutType(t *testing.T) {
	userID := uuid.New()
	svc := &testOnboardingService{
		completeFn: func(_ context.Context, uid uuid.UUID, _ onboarding.StepData) (*onboarding.RecordDTO, error) {
			return &onboarding.RecordDTO{UserID: uid, Step: 5}, nil
		},
	}
	writer := &testTypeWriter{}

	req := authedRequest(http.MethodPost, "/api/v1/onboarding/complete", `{}`, userID)
	resp := httptest.NewRecorder()
	CompleteOnboarding(svc, writer, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if writer.setCalls != 0 {
		t.Fatalf("expected no account type write, got %d", writer.setCalls)
	}
}

func TestSaveOnboardingRejectsOutOfRangeStep(t *testing.T) {
	called := false
	svc := &testOnboardingService{
		saveFn: func(context.Context, uuid.UUID, onboarding.StepData, int) (*onboarding.RecordDTO, error) {
			called = true
			return nil, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/onboarding", `{"step":9}`, uuid.New())
	resp := httptest.NewRecorder()
	SaveOnboarding(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if called {
		t.Fatal("service should not run on invalid input")
	}
}

func TestGetOnboardingRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/onboarding", nil)
	resp := httptest.NewRecorder()
	GetOnboarding(&testOnboardingService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestOnboardingProgressPassthrough(t *testing.T) {
	svc := &testOnboardingService{
		progressFn: func(context.Context, uuid.UUID) (*onboarding.ProgressDTO, error) {
			return &onboarding.ProgressDTO{Completed: false, CurrentStep: 3, TotalSteps: 5, Progress: 40}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/onboarding/progress", "", uuid.New())
	resp := httptest.NewRecorder()
	OnboardingProgress(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data onboarding.ProgressDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Progress != 40 || envelope.Data.CurrentStep != 3 {
		t.Fatalf("unexpected progress payload %+v", envelope.Data)
	}
}
