package account

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// usernameBase はemailの最初の@より前をユーザー名のベースとして返す。
// @を含まない場合はemail全体をそのまま使う（email形式の検証はしない方針のため）。
func usernameBase(email string) string {
	base, _, _ := strings.Cut(email, "@")
	return base
}

// usernameWithSuffix はベースにサフィックスを付与したユーザー名候補を返す。
// n=0はベースそのもの、n>=1は"base1"、"base2"のように末尾に数字を付ける。
func usernameWithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + strconv.Itoa(n)
}

// firstFreeSuffix は未使用のユーザー名になる最小のサフィックスを返す。
// これは高速パスであり、並行サインアップに対する保証はない。
// 確定はCreate時のUNIQUE制約違反の再試行で行う。
func (s *Service) firstFreeSuffix(ctx context.Context, base string) (int, error) {
	for n := 0; ; n++ {
		user, err := s.userRepo.FindByUsername(ctx, usernameWithSuffix(base, n))
		if err != nil {
			return 0, fmt.Errorf("failed to check username availability: %w", err)
		}
		if user == nil {
			return n, nil
		}
	}
}
