package config

import (
	"os"
	"strconv"
	"strings"
)

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds runtime defaults, loaded from environment variables. Command
// line flags override them.
type Config struct {
	// Session
	Dir  string // base directory for takes and the manifest
	Kind string // payload kind for new takes

	// Timing
	FPS            int     // tick rate of the update/draw loop
	Loop           float64 // loop marker in seconds, 0 disables
	CompleteOnLoop bool    // finish pending takes when the loop marker fires

	// OSC
	OSCPort    int    // listen port for the osc kind, 0 disables the listener
	OSCForward string // host:port that played back osc frames are sent to
	OSCAddress string // address pattern captured by the osc kind, "*" for all

	// Generators
	SampleRate int
	Tone       float64 // sine frequency in Hz
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Dir:  envStr("MULTITAKE_DIR", "takes"),
		Kind: envStr("MULTITAKE_KIND", "points"),

		FPS:            envInt("MULTITAKE_FPS", 30),
		Loop:           envFloat("MULTITAKE_LOOP", 0),
		CompleteOnLoop: envBool("MULTITAKE_COMPLETE_ON_LOOP", false),

		OSCPort:    envInt("MULTITAKE_OSC_PORT", 0),
		OSCForward: envStr("MULTITAKE_OSC_FORWARD", ""),
		OSCAddress: envStr("MULTITAKE_OSC_ADDRESS", "*"),

		SampleRate: envInt("MULTITAKE_SAMPLE_RATE", 44100),
		Tone:       envFloat("MULTITAKE_TONE", 220),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
