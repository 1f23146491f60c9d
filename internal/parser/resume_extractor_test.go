package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractFromFile 验证从文本文件提取简历
func TestExtractFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "resume.txt")
	content := "Summary\nGo developer.\n\nSkills\nGo, Docker\n\nEducation\nBSc Computer Science"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	e := NewTextResumeExtractor()
	text, sections, err := e.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, content, text)
	assert.Contains(t, sections, "skills")
	assert.Contains(t, sections, "education")
}

// TestExtractFromRawText 验证非文件路径的输入按原始文本处理
func TestExtractFromRawText(t *testing.T) {
	e := NewTextResumeExtractor()
	text, sections, err := e.Extract("Experienced engineer with Go and Kubernetes.")
	require.NoError(t, err)
	assert.Contains(t, text, "Kubernetes")
	// 没有任何章节标题时整篇文本作为full_text
	assert.Contains(t, sections, "full_text")
}

// TestExtractEmptyInput 验证空简历返回错误
func TestExtractEmptyInput(t *testing.T) {
	e := NewTextResumeExtractor()
	_, _, err := e.Extract("   \n  ")
	assert.Error(t, err)
}

// TestClean 验证文本清洗规则
func TestClean(t *testing.T) {
	e := NewTextResumeExtractor()
	dirty := "Built   systems ,  fast .\r\n\r\n\r\n\r\nNext   line"
	got := e.Clean(dirty)
	assert.Equal(t, "Built systems, fast.\n\nNext line", got)
}

// TestParseSectionsOrder 验证章节内容截取到下一个标题为止
func TestParseSectionsOrder(t *testing.T) {
	text := "Skills\nGo, SQL\nEducation\nBSc"
	sections := ParseSections(text)
	require.Contains(t, sections, "skills")
	assert.NotContains(t, sections["skills"], "BSc", "skills章节不应包含education内容")
}
