package constants

import "os"

func GetGenerationURL() string {
	url := os.Getenv("HANDEX_GEN_URL")
	if url != "" {
		return url
	}
	return "http://localhost:1234"
}

func GetMetadataEndpoint() string {
	// empty means metadata lookup is skipped entirely
	return os.Getenv("HANDEX_METADATA_ENDPOINT")
}

func GetOutDir() string {
	path := os.Getenv("HANDEX_OUT_DIR")
	if path != "" {
		return path
	}
	return "."
}

// Notes starting within this window (seconds) form one chord.
const DefaultChordTolerance = 0.010

// Positions of lookahead per search window.
const DefaultSearchWindow = 4

const DefaultGenerationRetries = 3

const DefaultGenerationTimeoutSecs = 60

const DefaultRightPartIndex = 0
const DefaultLeftPartIndex = 1
