package document

import (
	"encoding/xml"
	"strings"
)

// escape 转义 XML 文本；非法控制字符由 encoding/xml 替换为 U+FFFD
func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
