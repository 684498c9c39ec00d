package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/learnup/internal/model"
)

type mockSessionFinder struct {
	findFn func(ctx context.Context, id string) (*model.Session, error)
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id)
	}
	return nil, nil
}

// 有効なセッションでユーザーIDがコンテキストに注入されること
func TestSessionMiddleware_InjectsUserID(t *testing.T) {
	finder := &mockSessionFinder{
		findFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		gotUserID = userID
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "session-abc"})
	w := httptest.NewRecorder()

	NewSessionMiddleware(finder)(next).ServeHTTP(w, req)

	if gotUserID != "user-1" {
		t.Errorf("user ID = %q, want %q", gotUserID, "user-1")
	}
}

// Cookieなし・無効セッション・検索エラーはすべて401になること
func TestSessionMiddleware_Unauthorized(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		finder *mockSessionFinder
	}{
		{
			name:   "Cookieなし",
			finder: &mockSessionFinder{},
		},
		{
			name:   "空のCookie",
			cookie: &http.Cookie{Name: "session_id", Value: ""},
			finder: &mockSessionFinder{},
		},
		{
			name:   "セッションが存在しない",
			cookie: &http.Cookie{Name: "session_id", Value: "expired"},
			finder: &mockSessionFinder{},
		},
		{
			name:   "検索エラー",
			cookie: &http.Cookie{Name: "session_id", Value: "session-abc"},
			finder: &mockSessionFinder{
				findFn: func(ctx context.Context, id string) (*model.Session, error) {
					return nil, errors.New("db down")
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be called")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()

			NewSessionMiddleware(tt.finder)(next).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if !strings.Contains(w.Body.String(), "Authentication required") {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-1")
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("user ID = %q, want %q", userID, "user-1")
	}

	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for empty context")
	}
}
