package cli

import "os"

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	PlayerID   string
	PlayerName string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("EMBERFELL_SERVER", "http://localhost:8080"),
		PlayerID:   os.Getenv("EMBERFELL_PLAYER_ID"),
		PlayerName: os.Getenv("EMBERFELL_PLAYER_NAME"),
		Output:     "text",
		Verbose:    false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
