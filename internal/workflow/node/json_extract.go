package node

import (
	"strings"

	"github.com/tidwall/gjson"
)

// StripCodeFence 去掉模型输出外层的 Markdown 代码围栏（```json ... ```）
func StripCodeFence(s string) string {
	raw := strings.TrimSpace(s)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	if nl := strings.IndexByte(raw, '\n'); nl >= 0 && isFenceLang(raw[:nl]) {
		raw = raw[nl+1:]
	} else {
		raw = strings.TrimPrefix(raw, "json")
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

func isFenceLang(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// ExtractJSONObject 从模型输出中截取第一个完整 JSON 值（对象或数组）。
// 模型可能在 JSON 前后夹杂说明文字；截取失败时返回去围栏后的原文。
func ExtractJSONObject(s string) string {
	raw := StripCodeFence(s)
	if raw == "" || gjson.Valid(raw) {
		return raw
	}

	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	start, end := -1, -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(raw, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(raw, "]")
	}
	if start < 0 || end <= start {
		return raw
	}

	candidate := raw[start : end+1]
	if gjson.Valid(candidate) {
		return candidate
	}
	return raw
}
