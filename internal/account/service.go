// Package account はサインアップ・ログインのドメインロジックを提供する。
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/learnup/internal/identity"
	"github.com/hitoshi/learnup/internal/model"
	"github.com/hitoshi/learnup/internal/repository"
)

// IdentityProvider はアカウント作成・認証・セッション発行のインターフェース。
// パスワードのハッシュ化と検証はこの実装側が所有する。
// identity.Serviceの部分集合として定義する。
type IdentityProvider interface {
	// CreateAccount はパスワードをハッシュ化してユーザーを作成する。
	CreateAccount(ctx context.Context, username, email, password string) (*model.User, error)
	// Authenticate はusernameとパスワードで認証する。
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	// CreateSession はユーザーのセッションを発行する。
	CreateSession(ctx context.Context, userID string) (*model.Session, error)
}

// Service はアカウント管理のサービス層。
// 入力検証、ユーザー名の生成、重複チェックを行い、
// ハッシュ化とセッション発行はIdentityProviderに委譲する。
type Service struct {
	userRepo repository.UserRepository
	provider IdentityProvider
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, provider IdentityProvider) *Service {
	return &Service{
		userRepo: userRepo,
		provider: provider,
	}
}

// Signup は新規ユーザーを登録し、セッションを発行する。
// emailのローカル部からユーザー名を生成し、衝突時は数字サフィックスで回避する。
// 存在チェックは高速パスにすぎず、重複判定の正はDBのUNIQUE制約違反。
func (s *Service) Signup(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	if apiErr := ValidateCredentials(email, password, true); apiErr != nil {
		return nil, nil, apiErr
	}

	// 高速パス: email重複の事前チェック
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, nil, model.NewDuplicateEmailError()
	}

	base := usernameBase(email)
	n, err := s.firstFreeSuffix(ctx, base)
	if err != nil {
		return nil, nil, err
	}

	var user *model.User
	for {
		user, err = s.provider.CreateAccount(ctx, usernameWithSuffix(base, n), email, password)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateUsername) {
			// 並行サインアップに候補を先取りされた。次のサフィックスで再試行する。
			n++
			continue
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, model.NewDuplicateEmailError()
		}
		return nil, nil, fmt.Errorf("failed to create account: %w", err)
	}

	session, err := s.provider.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("signup completed",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, session, nil
}

// Login はemailとパスワードで認証し、セッションを発行する。
// パスワードの文字数ルールはログインでは適用しない。
// emailが存在しない場合もパスワード不一致の場合も同じエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	if apiErr := ValidateCredentials(email, password, false); apiErr != nil {
		return nil, nil, apiErr
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	authed, err := s.provider.Authenticate(ctx, user.Username, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, nil, model.NewInvalidCredentialsError()
		}
		return nil, nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	session, err := s.provider.CreateSession(ctx, authed.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("login completed", slog.String("user_id", authed.ID))

	return authed, session, nil
}
