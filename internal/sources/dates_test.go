package sources_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/sources"
)

func jstDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, domain.JST)
}

func TestInferYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		month int
		day   int
		now   time.Time
		want  int
	}{
		{"past month same year", 6, 1, jstDate(2025, 8, 30), 2025},
		{"same day", 8, 30, jstDate(2025, 8, 30), 2025},
		{"future month rolls back a year", 12, 25, jstDate(2025, 1, 10), 2024},
		{"tomorrow rolls back a year", 8, 31, jstDate(2025, 8, 30), 2024},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, sources.InferYear(tt.month, tt.day, tt.now))
		})
	}
}

func TestExtractEventDate(t *testing.T) {
	t.Parallel()

	now := jstDate(2025, 8, 30)

	t.Run("month day header", func(t *testing.T) {
		t.Parallel()

		got := sources.ExtractEventDate("6月15日(土)発売開始", now)
		require.NotNil(t, got)
		assert.Equal(t, jstDate(2025, 6, 15), *got)
	})

	t.Run("full-width digits", func(t *testing.T) {
		t.Parallel()

		got := sources.ExtractEventDate("６月１５日発売", now)
		require.NotNil(t, got)
		assert.Equal(t, jstDate(2025, 6, 15), *got)
	})

	t.Run("invalid calendar date yields nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, sources.ExtractEventDate("2月30日発売", now))
	})

	t.Run("no date token", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, sources.ExtractEventDate("新商品のお知らせ", now))
	})
}

func TestDateFromURL(t *testing.T) {
	t.Parallel()

	now := jstDate(2025, 8, 30)

	t.Run("compact token", func(t *testing.T) {
		t.Parallel()

		got := sources.DateFromURL("https://chiikawamarket.jp/collections/restock-20250615", now)
		require.NotNil(t, got)
		assert.Equal(t, jstDate(2025, 6, 15), *got)
	})

	t.Run("dashed token", func(t *testing.T) {
		t.Parallel()

		got := sources.DateFromURL("https://example.com/sale/2025-06-15/items", now)
		require.NotNil(t, got)
		assert.Equal(t, jstDate(2025, 6, 15), *got)
	})

	t.Run("no token", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, sources.DateFromURL("https://chiikawamarket.jp/collections/newitems", now))
	})

	t.Run("future year rejected", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, sources.DateFromURL("https://example.com/sale/20300101", now))
	})
}
