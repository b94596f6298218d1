package report

import (
	"strings"

	"github.com/iWorld-y/rss_digest/pkg/config"
	"github.com/iWorld-y/rss_digest/pkg/model"
)

// fallbackIdentity 配置中没有 _default 时的兜底来源
var fallbackIdentity = model.SourceIdentity{DisplayName: "其他来源", SortOrder: 99, Icon: "📁"}

// Classifier 把原始分类码映射为来源展示信息
type Classifier struct {
	mapping  map[string]model.SourceIdentity
	fallback model.SourceIdentity
}

// NewClassifier 从配置构建分类器
func NewClassifier(sourceMap map[string]config.SourceInfo) *Classifier {
	c := &Classifier{
		mapping:  make(map[string]model.SourceIdentity, len(sourceMap)),
		fallback: fallbackIdentity,
	}
	for key, info := range sourceMap {
		identity := model.SourceIdentity{
			DisplayName: info.DisplayName,
			SortOrder:   info.SortOrder,
			Icon:        info.Icon,
		}
		if key == config.DefaultSourceKey {
			c.fallback = identity
			continue
		}
		c.mapping[key] = identity
	}
	return c
}

// Classify 查表返回来源信息，未配置的分类落到默认来源。
// 任何输入都有结果，不会失败。
func (c *Classifier) Classify(raw string) model.SourceIdentity {
	if identity, ok := c.mapping[strings.TrimSpace(raw)]; ok {
		return identity
	}
	return c.fallback
}
