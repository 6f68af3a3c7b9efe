package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host     string `env:"HOST,required=true"`
	Port     int    `env:"PORT,required=true"`
	LogLevel string `env:"LOG_LEVEL,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	SessionTTL            time.Duration `env:"SESSION_TTL,required=true"`
	NotificationRetention time.Duration `env:"NOTIFICATION_RETENTION,required=true"`
	MaxContentLength      int           `env:"MAX_CONTENT_LENGTH,required=true"`

	// Optional moderation settings. An empty word list disables censoring.
	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT"`
}

// CensoredWordList splits the comma separated CENSORED_WORDS value.
func (c Config) CensoredWordList() []string {
	if c.CensoredWords == "" {
		return nil
	}
	var words []string
	for _, word := range strings.Split(c.CensoredWords, ",") {
		if trimmed := strings.TrimSpace(word); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	return words
}

// CharacterRune validates that the replacement is a single character,
// defaulting to '*' when unset.
func CharacterRune(str string) (rune, error) {
	if str == "" {
		return '*', nil
	}
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
