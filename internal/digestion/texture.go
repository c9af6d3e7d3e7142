package digestion

// Texture is the consistency tag carried by meal templates
type Texture string

const (
	TextureLiquid  Texture = "liquid"
	TexturePureed  Texture = "pureed"
	TextureMashed  Texture = "mashed"
	TextureSoft    Texture = "soft"
	TextureRegular Texture = "regular"
)

// FeedingStyle is the coarse texture-readiness label shown to caregivers
type FeedingStyle string

const (
	FeedingSolid  FeedingStyle = "solid"
	FeedingHard   FeedingStyle = "hard"
	FeedingNormal FeedingStyle = "normal"
)

const (
	looseStoolThreshold = 6
	smoothStageMaxAge   = 8
	firmerStageMaxAge   = 11
)

// Guidance messages
const (
	MessageLooseStool   = "Stool looks loose, so keep to smooth and soft textures and avoid hard textures until stool stabilizes."
	MessageSmoothStage  = "Pureed and mashed foods are appropriate for this stage."
	MessageFirmerStage  = "Introduce firmer textures gradually and always under supervision."
	MessageFiberFocus   = "Offer fiber-rich regular and soft foods, and keep hydration up with extra fluids through the day."
	MessageBalancedDiet = "Keep a balanced mix of regular and soft foods based on age and recent tolerance."
)

// TextureAdvice is the allowed-texture decision for one child
type TextureAdvice struct {
	FeedingStyle    FeedingStyle
	Message         string
	AllowedTextures []Texture
}

// Allows reports whether t is in the allowed set
func (a TextureAdvice) Allows(t Texture) bool {
	for _, allowed := range a.AllowedTextures {
		if allowed == t {
			return true
		}
	}
	return false
}

// AdviseTexture picks feeding guidance. Branches are checked in order and the
// first match wins: a loose stool overrides every age rule.
func AdviseTexture(ageMonths int, stoolType *int, need Need) TextureAdvice {
	switch {
	case stoolType != nil && *stoolType >= looseStoolThreshold:
		return TextureAdvice{FeedingStyle: FeedingSolid, Message: MessageLooseStool, AllowedTextures: smoothTextures()}
	case ageMonths <= smoothStageMaxAge:
		return TextureAdvice{FeedingStyle: FeedingSolid, Message: MessageSmoothStage, AllowedTextures: smoothTextures()}
	case ageMonths <= firmerStageMaxAge:
		return TextureAdvice{FeedingStyle: FeedingHard, Message: MessageFirmerStage, AllowedTextures: []Texture{TextureSoft, TextureRegular}}
	case need == NeedIncreaseFiber:
		return TextureAdvice{FeedingStyle: FeedingNormal, Message: MessageFiberFocus, AllowedTextures: []Texture{TextureRegular, TextureSoft}}
	default:
		return TextureAdvice{FeedingStyle: FeedingNormal, Message: MessageBalancedDiet, AllowedTextures: []Texture{TextureRegular, TextureSoft}}
	}
}

// fresh slice per call so callers may modify the result
func smoothTextures() []Texture {
	return []Texture{TextureLiquid, TexturePureed, TextureMashed, TextureSoft}
}
