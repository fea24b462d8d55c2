package sources_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/logger"
	"github.com/merchwatch/merchwatch/internal/sources"
)

const newsFixture = `
<html><body>
<ul>
<li class="news-item">
  <h2>6月15日よりポップアップストア開催</h2>
  <a href="/news/popup-2025"><img src="/images/popup.jpg"></a>
</li>
<li class="news-item">
  <h3>アニメ放送時間変更のお知らせ</h3>
  <a href="https://chiikawa-info.jp/news/anime-schedule">続きを読む</a>
</li>
<li><h3>TOP</h3><a href="/">home</a></li>
<li class="news-item">
  <h2>リンクのないお知らせ項目</h2>
</li>
</ul>
</body></html>`

func TestNews_Parse(t *testing.T) {
	t.Parallel()

	news := sources.NewNews("https://chiikawa-info.jp/", 20, logger.NewNoOp())
	news.SetNow(func() time.Time { return jstDate(2025, 8, 30) })

	candidates, err := news.Parse([]byte(newsFixture))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, domain.SourceNews, first.Source)
	assert.Equal(t, "6月15日よりポップアップストア開催", first.Title)
	assert.Equal(t, "https://chiikawa-info.jp/news/popup-2025", first.URL)
	assert.Equal(t, domain.StatusNew, first.Status)
	require.Len(t, first.Images, 1)
	assert.Equal(t, "https://chiikawa-info.jp/images/popup.jpg", first.Images[0])
	require.NotNil(t, first.EventDate)
	assert.Equal(t, jstDate(2025, 6, 15), *first.EventDate)

	second := candidates[1]
	assert.Equal(t, "アニメ放送時間変更のお知らせ", second.Title)
	assert.Equal(t, "https://chiikawa-info.jp/news/anime-schedule", second.URL)
	assert.Empty(t, second.Images)
	assert.Nil(t, second.EventDate)
}

func TestNews_Parse_SkipsShortTitlesAndMissingLinks(t *testing.T) {
	t.Parallel()

	news := sources.NewNews("https://chiikawa-info.jp/", 20, logger.NewNoOp())

	candidates, err := news.Parse([]byte(newsFixture))
	require.NoError(t, err)

	for _, c := range candidates {
		assert.GreaterOrEqual(t, len([]rune(c.Title)), 5)
		assert.NotEmpty(t, c.URL)
	}
}
