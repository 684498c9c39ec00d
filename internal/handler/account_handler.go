// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/learnup/internal/model"
)

const sessionCookieName = "session_id"

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	// Signup は新規ユーザーを登録し、セッションを発行する。
	Signup(ctx context.Context, email, password string) (*model.User, *model.Session, error)
	// Login はemailとパスワードで認証し、セッションを発行する。
	Login(ctx context.Context, email, password string) (*model.User, *model.Session, error)
}

// AccountMetrics はサインアップ・ログインの結果を記録するインターフェース。
type AccountMetrics interface {
	RecordSignup(result string)
	RecordLogin(result string)
}

// SessionCookieConfig はセッションCookieの設定。
type SessionCookieConfig struct {
	Domain string
	Secure bool
	MaxAge int // セッションCookieの有効期間（秒）
}

// AccountHandler はサインアップ・ログインのHTTPハンドラー。
type AccountHandler struct {
	service AccountServiceInterface
	cookie  SessionCookieConfig
	metrics AccountMetrics
}

// NewAccountHandler はAccountHandlerを生成する。
// metricsはnilでもよい。
func NewAccountHandler(service AccountServiceInterface, cookie SessionCookieConfig, metrics AccountMetrics) *AccountHandler {
	return &AccountHandler{
		service: service,
		cookie:  cookie,
		metrics: metrics,
	}
}

// Signup は新規ユーザー登録を処理する。
// POST /signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	data, apiErr := parseJSONRequest(r)
	if apiErr != nil {
		h.recordSignup("invalid_json")
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	email, password := credentialsFromRequest(data)

	user, session, err := h.service.Signup(r.Context(), email, password)
	if err != nil {
		h.recordSignup(signupFailureResult(err))
		handleServiceError(w, err)
		return
	}

	setSessionCookie(w, h.cookie, session.ID)
	h.recordSignup("success")
	writeUserResponse(w, http.StatusCreated, "User created successfully", user)
}

// Login はログインを処理する。
// POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	data, apiErr := parseJSONRequest(r)
	if apiErr != nil {
		h.recordLogin("invalid_json")
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	email, password := credentialsFromRequest(data)

	user, session, err := h.service.Login(r.Context(), email, password)
	if err != nil {
		h.recordLogin(loginFailureResult(err))
		handleServiceError(w, err)
		return
	}

	setSessionCookie(w, h.cookie, session.ID)
	h.recordLogin("success")
	writeUserResponse(w, http.StatusOK, "Login successful", user)
}

func (h *AccountHandler) recordSignup(result string) {
	if h.metrics != nil {
		h.metrics.RecordSignup(result)
	}
}

func (h *AccountHandler) recordLogin(result string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(result)
	}
}

// signupFailureResult はサインアップ失敗エラーからメトリクス用のラベルを導出する。
func signupFailureResult(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case model.ErrCodeDuplicateEmail:
			return "duplicate_email"
		case model.ErrCodeEmailRequired, model.ErrCodePasswordRequired, model.ErrCodeWeakPassword:
			return "validation"
		}
	}
	return "error"
}

// loginFailureResult はログイン失敗エラーからメトリクス用のラベルを導出する。
func loginFailureResult(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case model.ErrCodeInvalidCredentials:
			return "invalid_credentials"
		case model.ErrCodeEmailRequired, model.ErrCodePasswordRequired:
			return "validation"
		}
	}
	return "error"
}

// setSessionCookie はセッションCookieを設定する（HTTP Only）。
func setSessionCookie(w http.ResponseWriter, cfg SessionCookieConfig, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieを削除する。
func clearSessionCookie(w http.ResponseWriter, cfg SessionCookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
