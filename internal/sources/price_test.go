package sources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchwatch/merchwatch/internal/sources"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want *int64
	}{
		{"yen symbol with separator", "¥1,280", int64Ptr(1280)},
		{"trailing unit", "1,280円", int64Ptr(1280)},
		{"plain digits", "550", int64Ptr(550)},
		{"full-width digits", "１，２８０円", int64Ptr(1280)},
		{"price with label", "価格: ¥3,300 (税込)", int64Ptr(3300)},
		{"undetermined price", "価格未定", nil},
		{"empty text", "", nil},
		{"no digits", "近日発売", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sources.ParsePrice(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }
