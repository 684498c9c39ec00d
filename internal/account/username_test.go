package account

import (
	"context"
	"testing"

	"github.com/hitoshi/learnup/internal/model"
)

func TestUsernameBase(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "alice"},
		{"a@b.com", "a"},
		{"a@b@c.com", "a"},
		{"noatmark", "noatmark"},
	}

	for _, tt := range tests {
		if got := usernameBase(tt.email); got != tt.want {
			t.Errorf("usernameBase(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestUsernameWithSuffix(t *testing.T) {
	if got := usernameWithSuffix("alice", 0); got != "alice" {
		t.Errorf("suffix 0 = %q, want %q", got, "alice")
	}
	if got := usernameWithSuffix("alice", 1); got != "alice1" {
		t.Errorf("suffix 1 = %q, want %q", got, "alice1")
	}
	if got := usernameWithSuffix("alice", 12); got != "alice12" {
		t.Errorf("suffix 12 = %q, want %q", got, "alice12")
	}
}

// 既存のalice、alice1がいる場合にサフィックス2が選ばれることを検証
func TestFirstFreeSuffix_SkipsTakenNames(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			switch username {
			case "alice", "alice1":
				return &model.User{ID: "u-" + username, Username: username}, nil
			default:
				return nil, nil
			}
		},
	}
	svc := NewService(repo, nil)

	n, err := svc.firstFreeSuffix(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("suffix = %d, want 2", n)
	}
}

// 未使用のベース名はサフィックスなしで使われることを検証
func TestFirstFreeSuffix_UnusedBase(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	n, err := svc.firstFreeSuffix(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("suffix = %d, want 0", n)
	}
}
