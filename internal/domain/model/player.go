package model

// Attribute names a player attribute that perk points can raise.
type Attribute string

// Player attributes.
const (
	AttributeFocusMastery      Attribute = "focusMastery"
	AttributeCreativeIntuition Attribute = "creativeIntuition"
	AttributeTechnicalAptitude Attribute = "technicalAptitude"
	AttributeBusinessAcumen    Attribute = "businessAcumen"
)

// IsValid reports whether a names a known attribute.
func (a Attribute) IsValid() bool {
	switch a {
	case AttributeFocusMastery, AttributeCreativeIntuition, AttributeTechnicalAptitude, AttributeBusinessAcumen:
		return true
	default:
		return false
	}
}

// PlayerAttributes holds the four attribute levels. Each level above 1 is
// worth a 5% bonus.
type PlayerAttributes struct {
	FocusMastery      int `json:"focus_mastery"`
	CreativeIntuition int `json:"creative_intuition"`
	TechnicalAptitude int `json:"technical_aptitude"`
	BusinessAcumen    int `json:"business_acumen"`
}

// Level returns the level of attribute a, or 0 for an unknown attribute.
func (p PlayerAttributes) Level(a Attribute) int {
	switch a {
	case AttributeFocusMastery:
		return p.FocusMastery
	case AttributeCreativeIntuition:
		return p.CreativeIntuition
	case AttributeTechnicalAptitude:
		return p.TechnicalAptitude
	case AttributeBusinessAcumen:
		return p.BusinessAcumen
	default:
		return 0
	}
}

// PlayerData is the player's progression state.
type PlayerData struct {
	Level             int              `json:"level"`
	XP                int              `json:"xp"`
	PerkPoints        int              `json:"perk_points"`
	DailyWorkCapacity int              `json:"daily_work_capacity"`
	Attributes        PlayerAttributes `json:"attributes"`
}

// FocusAllocation splits the player's attention across three channels, in
// percent. The values are expected, but not required, to sum to 100.
type FocusAllocation struct {
	Performance  float64 `json:"performance"`
	SoundCapture float64 `json:"sound_capture"`
	Layering     float64 `json:"layering"`
}

// DefaultFocus is the allocation a fresh game starts with.
var DefaultFocus = FocusAllocation{Performance: 33, SoundCapture: 33, Layering: 34} //nolint:gochecknoglobals // immutable default

// PerkModifiers aggregates global studio perk bonuses. Values are fractions:
// 0.1 means +10%.
type PerkModifiers struct {
	RecordingQuality float64 `json:"recording_quality"`
	MixingQuality    float64 `json:"mixing_quality"`
	MasteringQuality float64 `json:"mastering_quality"`
	ContractPayout   float64 `json:"contract_payout"`
}
