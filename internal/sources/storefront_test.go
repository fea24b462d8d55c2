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

const storefrontFixture = `
<html><body>
<h1>再入荷商品</h1>
<div class="product-item">
  <h3 class="product-item__title">ちいかわ ぬいぐるみ</h3>
  <a href="/products/plush-1">詳細</a>
  <img data-src="//cdn.shop.example/plush-1.png?v=42" src="/placeholder.gif">
  <span class="price">¥2,420</span>
</div>
<div class="product-item">
  <h3 class="product-item__title">ハチワレ マスコット</h3>
  <a href="https://chiikawamarket.jp/products/mascot-7">詳細</a>
  <img srcset="//cdn.shop.example/mascot-7_400x.png?v=1 400w, //cdn.shop.example/mascot-7_800x.png 800w">
  <span class="price-item">価格未定</span>
</div>
<div class="product-item">
  <h3 class="product-item__title">ちいかわ ぬいぐるみ</h3>
  <a href="/products/plush-1">重複カード</a>
</div>
<div class="card">
  <h3 class="card__title"></h3>
  <a href="/products/ignored">タイトルなし</a>
</div>
<div class="card">
  <h3 class="card__title">リンクなし商品</h3>
</div>
</body></html>`

func newTestStorefront(t *testing.T, path string, status domain.Status) *sources.StorefrontPage {
	t.Helper()

	page := sources.NewStorefrontPage(
		"storefront_restock",
		"https://chiikawamarket.jp",
		path,
		status,
		20,
		logger.NewNoOp(),
	)
	page.SetNow(func() time.Time { return jstDate(2025, 8, 30) })
	return page
}

func TestStorefrontPage_Parse(t *testing.T) {
	t.Parallel()

	page := newTestStorefront(t, "/collections/resale", domain.StatusRestock)

	candidates, err := page.Parse([]byte(storefrontFixture))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, domain.SourceStorefront, first.Source)
	assert.Equal(t, "ちいかわ ぬいぐるみ", first.Title)
	assert.Equal(t, "https://chiikawamarket.jp/products/plush-1", first.URL)
	assert.Equal(t, domain.StatusRestock, first.Status)
	require.NotNil(t, first.Price)
	assert.Equal(t, int64(2420), *first.Price)
	// data-src wins over placeholder src; query string stripped
	require.Len(t, first.Images, 1)
	assert.Equal(t, "https://cdn.shop.example/plush-1.png", first.Images[0])

	second := candidates[1]
	assert.Equal(t, "ハチワレ マスコット", second.Title)
	assert.Nil(t, second.Price)
	// srcset fallback takes the first candidate
	require.Len(t, second.Images, 1)
	assert.Equal(t, "https://cdn.shop.example/mascot-7_400x.png", second.Images[0])
}

func TestStorefrontPage_Parse_SourceIDStability(t *testing.T) {
	t.Parallel()

	page := newTestStorefront(t, "/collections/newitems", domain.StatusNew)

	first, err := page.Parse([]byte(storefrontFixture))
	require.NoError(t, err)
	second, err := page.Parse([]byte(storefrontFixture))
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].SourceID, second[i].SourceID)
	}
	assert.NotEqual(t, first[0].SourceID, first[1].SourceID)
}

func TestStorefrontPage_Parse_EventDateFromHeader(t *testing.T) {
	t.Parallel()

	page := newTestStorefront(t, "/collections/resale", domain.StatusRestock)

	fixture := `<html><body>
		<h1>6月15日 再入荷</h1>
		<div class="product-item">
			<h3>ちいかわ アクスタ</h3>
			<a href="/products/acrylic-3">詳細</a>
		</div>
	</body></html>`

	candidates, err := page.Parse([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.NotNil(t, candidates[0].EventDate)
	assert.Equal(t, jstDate(2025, 6, 15), *candidates[0].EventDate)
}

func TestStorefrontPage_Parse_EventDateFromURL(t *testing.T) {
	t.Parallel()

	page := newTestStorefront(t, "/collections/restock-20250601", domain.StatusRestock)

	fixture := `<html><body>
		<div class="product-item">
			<h3>ちいかわ キーホルダー</h3>
			<a href="/products/key-9">詳細</a>
		</div>
	</body></html>`

	candidates, err := page.Parse([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.NotNil(t, candidates[0].EventDate)
	assert.Equal(t, jstDate(2025, 6, 1), *candidates[0].EventDate)
}

func TestStorefrontPage_Parse_CapsCandidates(t *testing.T) {
	t.Parallel()

	page := sources.NewStorefrontPage(
		"storefront_new",
		"https://chiikawamarket.jp",
		"/collections/newitems",
		domain.StatusNew,
		2,
		logger.NewNoOp(),
	)

	candidates, err := page.Parse([]byte(storefrontFixture))
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}
