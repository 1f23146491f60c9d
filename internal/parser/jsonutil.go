package parser

import "strings"

// extractJSONBlock 从LLM响应文本中提取第一个配平的JSON对象
func extractJSONBlock(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		if text[i] == '{' {
			level++
		} else if text[i] == '}' {
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// sanitizeJSON 会遍历 src，将任何位于字符串字面量内部但并非"真正结束"的双引号改写为 \"，
// 以保证整个 JSON 在 Go 端能够正常反序列化。
// 它通过检查下一个非空白字符是否为 :, ], }, 或 , 来判断该 " 是否为字符串的结束。
// 反斜杠转义逻辑则正常处理 \\ 和 \"。
func sanitizeJSON(src string) string {
	var b strings.Builder
	inStr := false
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]

		if c == '"' && !escaped {
			if !inStr {
				inStr = true
				b.WriteByte(c)
			} else {
				// 当前在字符串里，检查这是不是字符串的真正结束
				j := i + 1
				for j < len(src) && (src[j] == ' ' || src[j] == '\t' || src[j] == '\n' || src[j] == '\r') {
					j++
				}
				if j < len(src) && (src[j] == ':' || src[j] == ',' || src[j] == ']' || src[j] == '}') {
					inStr = false
					b.WriteByte(c)
				} else {
					b.WriteString("\\\"")
				}
			}
			escaped = false

		} else if c == '\\' && !escaped {
			escaped = true
			b.WriteByte(c)

		} else {
			b.WriteByte(c)
			escaped = false
		}
	}

	return b.String()
}
