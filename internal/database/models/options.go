package models

// ToneLevel controls the register of drafted replies
type ToneLevel string

const (
	ToneBalanced   ToneLevel = "balanced"
	ToneVeryFormal ToneLevel = "very_formal"
)

// IsValid checks if the tone level is valid
func (t ToneLevel) IsValid() bool {
	switch t {
	case ToneBalanced, ToneVeryFormal:
		return true
	}
	return false
}

// Aggressiveness controls how readily marketing emails are marked for unsubscription
type Aggressiveness string

const (
	AggressivenessConservative Aggressiveness = "conservative"
	AggressivenessBalanced     Aggressiveness = "balanced"
	AggressivenessAggressive   Aggressiveness = "aggressive"
)

// IsValid checks if the aggressiveness level is valid
func (a Aggressiveness) IsValid() bool {
	switch a {
	case AggressivenessConservative, AggressivenessBalanced, AggressivenessAggressive:
		return true
	}
	return false
}
