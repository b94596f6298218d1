package keyword

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/iWorld-y/rss_digest/pkg/logger"
)

// RegexPrefix 自定义正则关键词的前缀
const RegexPrefix = "regex:"

// kind 规则的匹配策略，在加载配置时识别一次
type kind int

const (
	kindRegex   kind = iota // regex: 前缀的自定义正则
	kindLoose               // 含中文：宽松匹配，允许字符间插入
	kindEscaped             // 含特殊字符或空格：转义后整词匹配
	kindWord                // 纯英文/数字：单词边界匹配
)

// rule 编译后的单条规则
type rule struct {
	id     string // 配置中的原始写法，作为匹配结果返回
	kind   kind
	re     *regexp.Regexp
	needle string // 正则编译失败时的子串兜底（小写）
}

// Matcher 关键词匹配器，规则在构造时编译完成
type Matcher struct {
	rules    []rule
	excludes []rule
}

// NewMatcher 编译关键词与排除词列表。
// 非法的 regex: 规则只告警，不会中断运行，该规则视为永不匹配。
func NewMatcher(keywords, excludes []string) *Matcher {
	m := &Matcher{}
	for _, kw := range keywords {
		if r, ok := compileRule(kw); ok {
			m.rules = append(m.rules, r)
		}
	}
	for _, kw := range excludes {
		if r, ok := compileRule(kw); ok {
			m.excludes = append(m.excludes, r)
		}
	}
	return m
}

// Match 返回命中的关键词列表，保持配置顺序。
// 命中任意排除词时直接返回空（排除词优先级最高）。
func (m *Matcher) Match(text string) []string {
	if text == "" {
		return nil
	}

	for _, r := range m.excludes {
		if r.match(text) {
			return nil
		}
	}

	var matched []string
	for _, r := range m.rules {
		if r.match(text) {
			matched = append(matched, r.id)
		}
	}
	return matched
}

func (r *rule) match(text string) bool {
	if r.re != nil {
		return r.re.MatchString(text)
	}
	if r.needle != "" {
		return strings.Contains(strings.ToLower(text), r.needle)
	}
	return false
}

// compileRule 根据关键词形态选择匹配策略并编译
func compileRule(kw string) (rule, bool) {
	if kw == "" {
		return rule{}, false
	}

	if strings.HasPrefix(kw, RegexPrefix) {
		raw := strings.TrimSpace(strings.TrimPrefix(kw, RegexPrefix))
		if raw == "" {
			return rule{}, false
		}
		// 单词边界包围，确保完整匹配（economic 不应命中 onco...）
		re, err := regexp.Compile(`(?i)\b(?:` + raw + `)\b`)
		if err != nil {
			logger.Log.Warnf("正则关键词 %q 语法错误: %v", raw, err)
			// 保留规则但永不匹配，与其余规则的计数保持一致
			return rule{id: kw, kind: kindRegex}, true
		}
		return rule{id: kw, kind: kindRegex, re: re}, true
	}

	switch {
	case containsHan(kw):
		// 中文关键词：字符间允许插入任意内容，如 "单细胞" -> "单.*细.*胞"
		// 这是刻意的宽松策略，短词可能产生误报
		parts := make([]string, 0, len(kw))
		for _, r := range kw {
			parts = append(parts, string(r))
		}
		re, err := regexp.Compile("(?i)" + strings.Join(parts, ".*"))
		if err != nil {
			logger.Log.Warnf("关键词 %q 编译失败: %v", kw, err)
			return rule{id: kw, kind: kindLoose, needle: strings.ToLower(kw)}, true
		}
		return rule{id: kw, kind: kindLoose, re: re}, true

	case containsSpecial(kw) || strings.Contains(kw, " "):
		// 含特殊字符或空格：转义后保留连字符，空格放宽为任意空白
		escaped := regexp.QuoteMeta(kw)
		escaped = strings.ReplaceAll(escaped, `\-`, `-`)
		escaped = strings.ReplaceAll(escaped, ` `, `\s+`)
		re, err := regexp.Compile(`(?i)\b` + escaped + `\b`)
		if err != nil {
			// 兜底：大小写不敏感的子串包含
			return rule{id: kw, kind: kindEscaped, needle: strings.ToLower(kw)}, true
		}
		return rule{id: kw, kind: kindEscaped, re: re}, true

	default:
		// 纯英文/数字：单词边界匹配，避免 TME 命中 ultimate
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		if err != nil {
			return rule{id: kw, kind: kindWord, needle: strings.ToLower(kw)}, true
		}
		return rule{id: kw, kind: kindWord, re: re}, true
	}
}

// containsHan 关键词是否包含中文字符
func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// containsSpecial 关键词是否包含正则特殊字符
func containsSpecial(s string) bool {
	return strings.ContainsAny(s, `.-+*?^[](){}|\`)
}
