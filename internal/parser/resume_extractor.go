package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// 简历中常见的章节标题，按出现位置切分章节
var sectionHeaders = []string{
	"education",
	"experience",
	"work experience",
	"skills",
	"projects",
	"summary",
	"certifications",
	"publications",
}

var (
	whitespaceRe    = regexp.MustCompile(`[ \t]+`)
	punctSpaceRe    = regexp.MustCompile(`\s+([,.])`)
	multiNewlineRe  = regexp.MustCompile(`\n{3,}`)
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
)

// TextResumeExtractor 从纯文本来源提取简历内容。
// 文件格式相关的解析（PDF/DOCX）由外部协作方完成，这里只处理提取后的文本。
type TextResumeExtractor struct{}

// NewTextResumeExtractor 创建文本简历提取器
func NewTextResumeExtractor() *TextResumeExtractor {
	return &TextResumeExtractor{}
}

// Extract 提取简历文本和章节映射。
// source 可以是磁盘上的文本文件路径，也可以直接是简历文本本身。
func (e *TextResumeExtractor) Extract(source string) (string, map[string]string, error) {
	text := source
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", nil, fmt.Errorf("读取简历文件失败: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", nil, fmt.Errorf("简历内容为空")
	}

	return text, ParseSections(text), nil
}

// Clean 清洗归一化简历文本：折叠多余空白、去掉标点前空格、压缩连续空行
func (e *TextResumeExtractor) Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = punctSpaceRe.ReplaceAllString(text, "$1")
	text = trailingSpaceRe.ReplaceAllString(text, "\n")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ParseSections 按常见章节标题启发式切分简历。
// 找不到任何标题时整篇文本作为 full_text 返回。
func ParseSections(text string) map[string]string {
	sections := make(map[string]string)
	lower := strings.ToLower(text)

	for _, h := range sectionHeaders {
		idx := strings.Index(lower, h)
		if idx == -1 {
			continue
		}
		// 截取到下一个出现的其他标题为止
		end := len(text)
		for _, h2 := range sectionHeaders {
			if h2 == h {
				continue
			}
			if pos := strings.Index(lower[idx+1:], h2); pos != -1 {
				if abs := idx + 1 + pos; abs < end {
					end = abs
				}
			}
		}
		sections[h] = strings.TrimSpace(text[idx:end])
	}

	if len(sections) == 0 {
		sections["full_text"] = text
	}
	return sections
}
