package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crumb/internal/analysis"
	"crumb/internal/db/mock"
	"crumb/internal/store"
	"crumb/models"
)

var fixedTime = time.Date(2025, 4, 12, 7, 30, 0, 0, time.UTC)

// workspaceFixture is a configured handler package backed by the seeded
// mock database.
type workspaceFixture struct {
	sm     *scs.SessionManager
	db     *gorm.DB
	userID uint
	byName map[string]models.Formula
}

func withWorkspace(t *testing.T) *workspaceFixture {
	t.Helper()

	previousSM, previousDB, previousStore := sessionManager, database, formulas
	previousThresholds, previousHistories := thresholds, histories
	t.Cleanup(func() {
		sessionManager, database, formulas = previousSM, previousDB, previousStore
		thresholds, histories = previousThresholds, previousHistories
	})

	db, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("failed to open mock database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	sm := scs.New()
	Configure(sm, db, Settings{Thresholds: analysis.DefaultThresholds(), HistoryLimit: 10})

	var user models.User
	if err := db.Where("email = ?", mock.DemoEmail).First(&user).Error; err != nil {
		t.Fatalf("failed to load demo user: %v", err)
	}

	fx := &workspaceFixture{sm: sm, db: db, userID: user.ID, byName: make(map[string]models.Formula)}
	records, err := store.New(db).List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to list seeded formulas: %v", err)
	}
	for _, rec := range records {
		f, err := store.Decode(rec)
		if err != nil {
			t.Fatalf("failed to decode %s: %v", rec.Name, err)
		}
		fx.byName[f.Name] = f
	}
	return fx
}

func (fx *workspaceFixture) formula(t *testing.T, name string) models.Formula {
	t.Helper()
	f, ok := fx.byName[name]
	if !ok {
		t.Fatalf("seeded formula %q not found", name)
	}
	return f
}

func authenticateRequest(t *testing.T, sm *scs.SessionManager, req *http.Request, userID uint) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionUserIDKey, int(userID))
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	return req
}

func withFormulaID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("formulaID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// call runs handler as the fixture user against the formula id.
func (fx *workspaceFixture) call(t *testing.T, handler http.HandlerFunc, method, target string, id uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &payload)
	req.Header.Set("Content-Type", "application/json")
	req = authenticateRequest(t, fx.sm, req, fx.userID)
	if id != uuid.Nil {
		req = withFormulaID(req, id.String())
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
