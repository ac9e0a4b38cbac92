package trigger

import "github.com/okian/tycoon/internal/domain/model"

// Minigame kinds known to the built-in catalog.
const (
	KindRhythm        = "rhythm"
	KindPitch         = "pitch"
	KindMixing        = "mixing"
	KindMastering     = "mastering"
	KindTapeSplicing  = "tape_splicing"
	KindSoundDesign   = "sound_design"
	KindEffectChain   = "effect_chain"
	KindMicPlacement  = "mic_placement"
	KindAudioRestore  = "audio_restoration"
	KindAnalogConsole = "analog_console"
)

// DefaultCatalog returns the completion-linked definitions available to
// stages that register a minigame by kind.
func DefaultCatalog() []model.TriggerDefinition {
	return []model.TriggerDefinition{
		{ID: KindRhythm, Kind: KindRhythm, Reason: "Perfect timing is crucial for this track", Priority: 5, Reward: model.Reward{Kind: model.RewardEfficiency, Value: 15}},
		{ID: KindPitch, Kind: KindPitch, Reason: "Vocal pitch correction needed", Priority: 6, Reward: model.Reward{Kind: model.RewardQuality, Value: 10}},
		{ID: KindMixing, Kind: KindMixing, Reason: "Balance the mix before it goes out", Priority: 7, Reward: model.Reward{Kind: model.RewardQuality, Value: 15}},
		{ID: KindMastering, Kind: KindMastering, Reason: "Final polish on the master", Priority: 8, Reward: model.Reward{Kind: model.RewardQuality, Value: 20}},
		{ID: KindTapeSplicing, Kind: KindTapeSplicing, Reason: "Tape editing required for this section", Priority: 8, Reward: model.Reward{Kind: model.RewardSpeed, Value: 10}},
		{ID: KindSoundDesign, Kind: KindSoundDesign, Reason: "Craft a signature sound", Priority: 5, Reward: model.Reward{Kind: model.RewardXP, Value: 25}},
		{ID: KindEffectChain, Kind: KindEffectChain, Reason: "Build the effect chain for the lead", Priority: 4, Reward: model.Reward{Kind: model.RewardQuality, Value: 10}},
		{ID: KindMicPlacement, Kind: KindMicPlacement, Reason: "Find the sweet spot for the microphones", Priority: 4, Reward: model.Reward{Kind: model.RewardQuality, Value: 8}},
		{ID: KindAudioRestore, Kind: KindAudioRestore, Reason: "Clean up noisy takes", Priority: 3, Reward: model.Reward{Kind: model.RewardEfficiency, Value: 10}},
		{ID: KindAnalogConsole, Kind: KindAnalogConsole, Reason: "Mixing on analog console", Priority: 2, Reward: model.Reward{Kind: model.RewardReputation, Value: 5}},
	}
}
