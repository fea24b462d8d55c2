// Package classify assigns content categories by ordered keyword matching.
package classify

import (
	"strings"

	"github.com/merchwatch/merchwatch/internal/domain"
)

// CategoryRule pairs a category with its trigger substrings.
type CategoryRule struct {
	Category domain.Category
	Triggers []string
}

// Rules is the classification table. Evaluation order is a contract: the
// first category with any trigger present in the text wins, so the more
// specific categories must never be shadowed by earlier broad ones.
var Rules = []CategoryRule{
	// Lottery precedes merchandise: lottery announcements almost always
	// carry goods wording too, and the more specific category must win.
	{
		Category: domain.CategoryLottery,
		Triggers: []string{"一番くじ", "くじ", "ロット", "景品"},
	},
	{
		Category: domain.CategoryMerchandise,
		Triggers: []string{
			"グッズ", "発売", "予約", "販売", "限定",
			"ぬいぐるみ", "フィギュア", "マスコット", "アクスタ",
		},
	},
	{
		Category: domain.CategoryEvent,
		Triggers: []string{"イベント", "開催", "コラボ", "カフェ", "ポップアップ", "展示", "らんど"},
	},
	{
		Category: domain.CategoryComic,
		Triggers: []string{"更新", "掲載", "連載", "エピソード", "話"},
	},
	{
		Category: domain.CategoryAnimation,
		Triggers: []string{"放送", "配信", "声優", "OP", "ED"},
	},
}

// Classify returns the category for the given text. Text matching no rule
// classifies as other.
func Classify(text string) domain.Category {
	for _, rule := range Rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(text, trigger) {
				return rule.Category
			}
		}
	}

	return domain.CategoryOther
}
