package node

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrOutlineUnparseable 模型输出无法解析为大纲
var ErrOutlineUnparseable = errors.New("outline response is not a JSON array of titles")

// outlineKeys 对象形态下可接受的数组字段
var outlineKeys = []string{"sections", "outline", "titles"}

// ParseOutline 解析大纲输出：接受顶层字符串数组，或含 sections/outline/titles 数组的对象。
// 空白标题被丢弃；结果为空视为解析失败。
func ParseOutline(content string) ([]string, error) {
	raw := ExtractJSONObject(content)
	if raw == "" || !gjson.Valid(raw) {
		return nil, ErrOutlineUnparseable
	}

	root := gjson.Parse(raw)
	var arr gjson.Result
	switch {
	case root.IsArray():
		arr = root
	case root.IsObject():
		for _, key := range outlineKeys {
			if v := root.Get(key); v.IsArray() {
				arr = v
				break
			}
		}
	}
	if !arr.IsArray() {
		return nil, ErrOutlineUnparseable
	}

	titles := make([]string, 0, len(arr.Array()))
	for _, item := range arr.Array() {
		if item.Type != gjson.String {
			return nil, ErrOutlineUnparseable
		}
		if t := strings.TrimSpace(item.String()); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return nil, ErrOutlineUnparseable
	}
	return titles, nil
}
