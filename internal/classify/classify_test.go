package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchwatch/merchwatch/internal/classify"
	"github.com/merchwatch/merchwatch/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want domain.Category
	}{
		{
			name: "plush toy announcement",
			text: "新作ぬいぐるみが登場！",
			want: domain.CategoryMerchandise,
		},
		{
			name: "lottery announcement",
			text: "一番くじ 新シリーズ",
			want: domain.CategoryLottery,
		},
		{
			name: "popup event",
			text: "ポップアップストア開催のお知らせ",
			want: domain.CategoryEvent,
		},
		{
			name: "comic update",
			text: "本日連載更新しました",
			want: domain.CategoryComic,
		},
		{
			name: "anime broadcast",
			text: "アニメ放送時間のお知らせ",
			want: domain.CategoryAnimation,
		},
		{
			name: "no trigger falls back to other",
			text: "こんにちは",
			want: domain.CategoryOther,
		},
		{
			name: "empty text",
			text: "",
			want: domain.CategoryOther,
		},
		{
			name: "lottery wins over merchandise triggers in one string",
			text: "一番くじ ちいかわ 新グッズ発売・予約開始",
			want: domain.CategoryLottery,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, classify.Classify(tt.text))
		})
	}
}

// TestRules_DeclarationOrder pins the rule table order. Earlier categories
// win on multi-keyword text, so reordering the table changes classification
// results and must be a deliberate decision.
func TestRules_DeclarationOrder(t *testing.T) {
	t.Parallel()

	want := []domain.Category{
		domain.CategoryLottery,
		domain.CategoryMerchandise,
		domain.CategoryEvent,
		domain.CategoryComic,
		domain.CategoryAnimation,
	}

	require.Len(t, classify.Rules, len(want))
	for i, rule := range classify.Rules {
		assert.Equal(t, want[i], rule.Category, "rule %d", i)
		assert.NotEmpty(t, rule.Triggers, "rule %d triggers", i)
	}
}
