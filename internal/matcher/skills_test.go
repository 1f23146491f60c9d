package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompareLexicalScenario 验证词面匹配的划分结果
func TestCompareLexicalScenario(t *testing.T) {
	c := NewSkillComparator(nil, 0.75)
	result := c.Compare(context.Background(),
		[]string{"Python", "TensorFlow", "AWS"},
		[]string{"Python", "PyTorch", "AWS", "Communication"})

	require.Len(t, result.MatchedSkills, 2)
	assert.Equal(t, "Python", result.MatchedSkills[0].ResumeSkill)
	assert.Equal(t, "Python", result.MatchedSkills[0].JDSkill)
	assert.Equal(t, 1.0, result.MatchedSkills[0].Similarity)
	assert.Equal(t, "AWS", result.MatchedSkills[1].ResumeSkill)
	assert.Equal(t, "AWS", result.MatchedSkills[1].JDSkill)

	require.Len(t, result.MissingSkills, 2)
	assert.Equal(t, "PyTorch", result.MissingSkills[0].Skill)
	assert.Equal(t, "Communication", result.MissingSkills[1].Skill)
	assert.NotEmpty(t, result.MissingSkills[0].Suggestion)

	assert.Equal(t, []string{"TensorFlow"}, result.ExtraResumeSkills)
	assert.Equal(t, 50.0, result.MatchPercentage)
	// SFI = 0.7*0.5 + 0.3*1.0
	assert.InDelta(t, 0.65, result.SkillFitIndex, 1e-9)
}

// TestCompareEveryJDSkillPartitioned 验证每个JD技能恰好落在matched或missing之一
func TestCompareEveryJDSkillPartitioned(t *testing.T) {
	c := NewSkillComparator(nil, 0.75)
	jd := []string{"Go", "Kubernetes", "distributed systems", "SQL", "communication"}
	result := c.Compare(context.Background(),
		[]string{"go", "sql", "docker", "distributed systems design"}, jd)

	seen := make(map[string]int)
	for _, m := range result.MatchedSkills {
		seen[m.JDSkill]++
	}
	for _, m := range result.MissingSkills {
		seen[m.Skill]++
	}
	for _, skill := range jd {
		assert.Equal(t, 1, seen[skill], "JD技能 %q 应恰好出现一次", skill)
	}
}

// TestCompareTokenOverlapThreshold 验证重叠率必须严格大于0.6才接受
func TestCompareTokenOverlapThreshold(t *testing.T) {
	c := NewSkillComparator(nil, 0.75)

	// "machine learning" vs "machine learning engineering": 交集2, 并集3 -> 0.667 > 0.6
	result := c.Compare(context.Background(),
		[]string{"machine learning"}, []string{"machine learning engineering"})
	require.Len(t, result.MatchedSkills, 1)

	// "data" vs "data science platform": 交集1, 并集3 -> 0.333 <= 0.6
	result = c.Compare(context.Background(),
		[]string{"data"}, []string{"data science platform"})
	assert.Empty(t, result.MatchedSkills)
	assert.Len(t, result.MissingSkills, 1)
}

// TestCompareEmptyJDList 验证空JD列表按全匹配处理
func TestCompareEmptyJDList(t *testing.T) {
	c := NewSkillComparator(nil, 0.75)
	result := c.Compare(context.Background(), []string{"Go"}, nil)

	assert.Equal(t, 100.0, result.MatchPercentage)
	assert.Empty(t, result.MissingSkills)
	assert.GreaterOrEqual(t, result.SkillFitIndex, 0.0)
	assert.LessOrEqual(t, result.SkillFitIndex, 1.0)
}

// TestCompareDeterministic 验证同一输入产生同一划分
func TestCompareDeterministic(t *testing.T) {
	c := NewSkillComparator(nil, 0.75)
	r := []string{"Python", "Go", "cloud infrastructure", "SQL"}
	j := []string{"go", "python", "infrastructure as code", "mysql"}

	a := c.Compare(context.Background(), r, j)
	b := c.Compare(context.Background(), r, j)
	assert.Equal(t, a, b)
}

// TestCompareGreedyOrderDependence 验证贪心匹配由简历侧顺序决定
func TestCompareGreedyOrderDependence(t *testing.T) {
	c := NewSkillComparator(nil, 0.75)

	// 两个简历技能都能匹配同一个JD技能时，先来者占用
	result := c.Compare(context.Background(),
		[]string{"java", "java"}, []string{"java"})
	require.Len(t, result.MatchedSkills, 1)
	assert.Equal(t, []string{"java"}, result.ExtraResumeSkills, "后一个简历技能落入extras")
}

// TestCompareSemanticPass 验证第二轮语义匹配收编词面未匹配的技能
func TestCompareSemanticPass(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float64{
		"k8s":           {1, 0},
		"Kubernetes":    {0.98, 0.199},
		"spreadsheets":  {0, 1},
		"communication": {0.9, 0.436},
	}}
	c := NewSkillComparator(emb, 0.75)

	result := c.Compare(context.Background(),
		[]string{"k8s", "spreadsheets"},
		[]string{"Kubernetes", "communication"})

	require.Len(t, result.MatchedSkills, 1)
	assert.Equal(t, "k8s", result.MatchedSkills[0].ResumeSkill)
	assert.Equal(t, "Kubernetes", result.MatchedSkills[0].JDSkill)
	assert.GreaterOrEqual(t, result.MatchedSkills[0].Similarity, 0.75)

	require.Len(t, result.MissingSkills, 1)
	assert.Equal(t, "communication", result.MissingSkills[0].Skill)
	assert.Equal(t, []string{"spreadsheets"}, result.ExtraResumeSkills)
}

// TestCompareSemanticThresholdRejects 验证低于阈值的语义相似度不被接受
func TestCompareSemanticThresholdRejects(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float64{
		"excel": {1, 0},
		"Go":    {0.5, 0.866},
	}}
	c := NewSkillComparator(emb, 0.75)

	result := c.Compare(context.Background(), []string{"excel"}, []string{"Go"})
	assert.Empty(t, result.MatchedSkills)
	assert.Len(t, result.MissingSkills, 1)
}

// TestTokenOverlap 验证token重叠率的定义为交并比
func TestTokenOverlap(t *testing.T) {
	assert.InDelta(t, 1.0, TokenOverlap("Machine Learning", "machine learning"), 1e-9)
	assert.InDelta(t, 2.0/3.0, TokenOverlap("machine learning", "machine learning engineering"), 1e-9)
	assert.InDelta(t, 0.0, TokenOverlap("go", "rust"), 1e-9)
	assert.Equal(t, 0.0, TokenOverlap("", "go"))
}

// TestNormalizeSkill 验证比对归一化
func TestNormalizeSkill(t *testing.T) {
	assert.Equal(t, "c++", NormalizeSkill(" C++ "))
	assert.Equal(t, "node.js", NormalizeSkill("Node.js!"))
	assert.Equal(t, "data analysis", NormalizeSkill("Data   Analysis"))
}
