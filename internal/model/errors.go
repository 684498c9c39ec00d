// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはそのままクライアントに返すため、内部情報を含めてはならない。
type APIError struct {
	Code    string // エラーコード
	Message string // クライアント向けエラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeEmailRequired      = "EMAIL_REQUIRED"
	ErrCodePasswordRequired   = "PASSWORD_REQUIRED"
	ErrCodeWeakPassword       = "WEAK_PASSWORD"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewMalformedInputError はJSONボディの解析失敗エラーを生成する。
func NewMalformedInputError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidJSON,
		Message: "Invalid JSON format",
	}
}

// NewMissingEmailError はemail未入力エラーを生成する。
func NewMissingEmailError() *APIError {
	return &APIError{
		Code:    ErrCodeEmailRequired,
		Message: "Email is required",
	}
}

// NewMissingPasswordError はpassword未入力エラーを生成する。
func NewMissingPasswordError() *APIError {
	return &APIError{
		Code:    ErrCodePasswordRequired,
		Message: "Password is required",
	}
}

// NewWeakPasswordError はpasswordが短すぎる場合のエラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:    ErrCodeWeakPassword,
		Message: "Password must be at least 8 characters long",
	}
}

// NewDuplicateEmailError はemail重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:    ErrCodeDuplicateEmail,
		Message: "A user with this email already exists",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// 「emailが存在しない」と「パスワードが違う」を意図的に区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
	}
}

// NewUnauthorizedError はセッション未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: "Authentication required",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
	}
}

// NewInternalError は内部エラーを生成する。
// 詳細はログのみに記録し、クライアントには固定メッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "An unexpected error occurred",
	}
}
