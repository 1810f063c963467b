package texturelib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

func TestUploadCost(t *testing.T) {
	tests := []struct {
		name      string
		pricing   texturelib.Pricing
		sizeUnits int64
		public    bool
		expected  int64
	}{
		{
			name:      "public upload",
			pricing:   texturelib.Pricing{PublicRate: 1, PrivateRate: 3, ClosetItemCost: 1},
			sizeUnits: 5,
			public:    true,
			expected:  6,
		},
		{
			name:      "private upload at the higher rate",
			pricing:   texturelib.Pricing{PublicRate: 1, PrivateRate: 3, ClosetItemCost: 1},
			sizeUnits: 5,
			public:    false,
			expected:  16,
		},
		{
			name:      "award reduces the cost",
			pricing:   texturelib.Pricing{PublicRate: 1, PrivateRate: 3, ClosetItemCost: 1, UploadAward: 4},
			sizeUnits: 5,
			public:    true,
			expected:  2,
		},
		{
			name:      "award exceeding other terms yields a credit",
			pricing:   texturelib.Pricing{PublicRate: 1, PrivateRate: 3, ClosetItemCost: 1, UploadAward: 10},
			sizeUnits: 2,
			public:    true,
			expected:  -7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pricing.UploadCost(tt.sizeUnits, tt.public))
		})
	}
}

func TestTransitionDelta(t *testing.T) {
	pricing := texturelib.Pricing{PublicRate: 1, PrivateRate: 3, ClosetItemCost: 1, TakeBackAward: true}

	public := &texturelib.Texture{SizeUnits: 10, Public: true}
	private := &texturelib.Texture{SizeUnits: 10, Public: false}

	// Going private charges the rate difference
	assert.Equal(t, int64(-20), pricing.TransitionDelta(public))
	// Going public refunds it
	assert.Equal(t, int64(20), pricing.TransitionDelta(private))
}

func TestTransitionDelta_AwardClawback(t *testing.T) {
	pricing := texturelib.Pricing{PublicRate: 1, PrivateRate: 3, UploadAward: 5, TakeBackAward: true}
	public := &texturelib.Texture{SizeUnits: 10, Public: true}
	private := &texturelib.Texture{SizeUnits: 10, Public: false}

	// The award is clawed back only on the way out of public
	assert.Equal(t, int64(-25), pricing.TransitionDelta(public))
	assert.Equal(t, int64(20), pricing.TransitionDelta(private))

	pricing.TakeBackAward = false
	assert.Equal(t, int64(-20), pricing.TransitionDelta(public))
}

func TestSizeUnits(t *testing.T) {
	tests := []struct {
		bytes    int
		expected int64
	}{
		{0, 0},
		{1, 1},
		{1024, 1},
		{1025, 2},
		{5 * 1024, 5},
		{5*1024 + 1, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, texturelib.SizeUnits(tt.bytes), "bytes=%d", tt.bytes)
	}
}

func TestTextureKind(t *testing.T) {
	assert.True(t, texturelib.KindSteve.Valid())
	assert.True(t, texturelib.KindAlex.Valid())
	assert.True(t, texturelib.KindCape.Valid())
	assert.False(t, texturelib.TextureKind("banner").Valid())

	assert.Equal(t, texturelib.SlotSkin, texturelib.KindSteve.Slot())
	assert.Equal(t, texturelib.SlotSkin, texturelib.KindAlex.Slot())
	assert.Equal(t, texturelib.SlotCape, texturelib.KindCape.Slot())
}
