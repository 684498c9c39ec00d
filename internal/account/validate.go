package account

import (
	"unicode/utf8"

	"github.com/hitoshi/learnup/internal/model"
)

// minPasswordLength はサインアップ時に要求するパスワードの最小文字数。
const minPasswordLength = 8

// ValidateCredentials はemailとpasswordの入力チェックを行う。
// チェック順序は固定: email未入力 → password未入力 → （enforceMinLengthがtrueの場合のみ）文字数。
// 最初に違反したルールのエラーを返す。email形式の検証は行わない。
// 文字数はバイト数ではなく文字（rune）数で数える。
func ValidateCredentials(email, password string, enforceMinLength bool) *model.APIError {
	if email == "" {
		return model.NewMissingEmailError()
	}
	if password == "" {
		return model.NewMissingPasswordError()
	}
	if enforceMinLength && utf8.RuneCountInString(password) < minPasswordLength {
		return model.NewWeakPasswordError()
	}
	return nil
}
