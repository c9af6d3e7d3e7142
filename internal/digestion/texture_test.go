package digestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdviseTexture(t *testing.T) {
	tests := []struct {
		name      string
		age       int
		stoolType *int
		need      Need
		wantStyle FeedingStyle
		wantMsg   string
		allowed   []Texture
	}{
		{
			name:      "infant without reading",
			age:       6,
			need:      NeedBalanced,
			wantStyle: FeedingSolid,
			wantMsg:   MessageSmoothStage,
			allowed:   []Texture{TextureLiquid, TexturePureed, TextureMashed, TextureSoft},
		},
		{
			name:      "loose stool overrides toddler age",
			age:       14,
			stoolType: intPtr(7),
			need:      NeedDecreaseFiber,
			wantStyle: FeedingSolid,
			wantMsg:   MessageLooseStool,
			allowed:   []Texture{TextureLiquid, TexturePureed, TextureMashed, TextureSoft},
		},
		{
			name:      "boundary age 8",
			age:       8,
			stoolType: intPtr(4),
			need:      NeedBalanced,
			wantStyle: FeedingSolid,
			wantMsg:   MessageSmoothStage,
			allowed:   []Texture{TextureLiquid, TexturePureed, TextureMashed, TextureSoft},
		},
		{
			name:      "boundary age 9",
			age:       9,
			need:      NeedBalanced,
			wantStyle: FeedingHard,
			wantMsg:   MessageFirmerStage,
			allowed:   []Texture{TextureSoft, TextureRegular},
		},
		{
			name:      "age 11 with firm stool stays on firmer stage",
			age:       11,
			stoolType: intPtr(1),
			need:      NeedIncreaseFiber,
			wantStyle: FeedingHard,
			wantMsg:   MessageFirmerStage,
			allowed:   []Texture{TextureSoft, TextureRegular},
		},
		{
			name:      "toddler needing fiber",
			age:       15,
			stoolType: intPtr(3),
			need:      NeedIncreaseFiber,
			wantStyle: FeedingNormal,
			wantMsg:   MessageFiberFocus,
			allowed:   []Texture{TextureRegular, TextureSoft},
		},
		{
			name:      "toddler balanced",
			age:       20,
			stoolType: intPtr(4),
			need:      NeedBalanced,
			wantStyle: FeedingNormal,
			wantMsg:   MessageBalancedDiet,
			allowed:   []Texture{TextureRegular, TextureSoft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice := AdviseTexture(tt.age, tt.stoolType, tt.need)
			assert.Equal(t, tt.wantStyle, advice.FeedingStyle)
			assert.Equal(t, tt.wantMsg, advice.Message)
			assert.ElementsMatch(t, tt.allowed, advice.AllowedTextures)
		})
	}
}

func TestAdviseTextureFiberMessageMentionsHydration(t *testing.T) {
	advice := AdviseTexture(15, intPtr(3), NeedIncreaseFiber)
	assert.Contains(t, advice.Message, "hydration")
}

func TestAdviseTextureReturnsFreshSlices(t *testing.T) {
	first := AdviseTexture(6, nil, NeedBalanced)
	first.AllowedTextures[0] = TextureRegular

	second := AdviseTexture(6, nil, NeedBalanced)
	assert.Equal(t, TextureLiquid, second.AllowedTextures[0])
	assert.True(t, second.Allows(TexturePureed))
	assert.False(t, second.Allows(TextureRegular))
}
