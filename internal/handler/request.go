package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/hitoshi/learnup/internal/model"
)

// parseJSONRequest はリクエストボディをキーと値のマッピングとして解析する。
// この段階ではスキーマの検証は行わない。
// ボディ全体が単一の有効なJSONオブジェクトでない場合はMalformedInputエラーを返す。
// Decoderは最初の値で読み取りを止めて末尾のゴミを見逃すため、Unmarshalで全体を解析する。
func parseJSONRequest(r *http.Request) (map[string]any, *model.APIError) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, model.NewMalformedInputError()
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, model.NewMalformedInputError()
	}
	return data, nil
}

// stringField はマッピングから文字列フィールドを取り出す。
// キーが存在しない、または文字列でない場合は空文字を返す。
func stringField(data map[string]any, key string) string {
	v, ok := data[key].(string)
	if !ok {
		return ""
	}
	return v
}

// credentialsFromRequest はマッピングからemailとpasswordを取り出す。
// emailは前後の空白を除去する。passwordはそのまま扱う。
func credentialsFromRequest(data map[string]any) (email, password string) {
	email = strings.TrimSpace(stringField(data, "email"))
	password = stringField(data, "password")
	return email, password
}
