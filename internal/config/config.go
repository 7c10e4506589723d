package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ChatDispatchInline     = "inline"
	ChatDispatchBackground = "background"

	DispatchProviderTwilio  = "twilio"
	DispatchProviderInfobip = "infobip"
)

// DefaultTerminationPhrases end a voice call when spoken.
var DefaultTerminationPhrases = []string{"goodbye", "bye", "that's all", "no thanks", "i'm done"}

// Config holds every option the bot recognises. It is built once at start
// and handed to the components that need it.
type Config struct {
	Port     string
	LogLevel string
	LogJSON  bool

	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	GenerationTimeout time.Duration

	DispatchProvider string
	DispatchTimeout  time.Duration
	ChatDispatchMode string
	PublicBaseURL    string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	TwilioVoiceNumber string

	InfobipURL          string
	InfobipClientID     string
	InfobipClientSecret string
	WhatsAppPhoneNumber string

	VoicePersona       string
	VoiceLanguage      string
	GatherTimeout      int
	SpeechTimeout      string
	TerminationPhrases []string
	GenerationRetryCap int
	SilenceRepromptCap int
	SessionTTL         time.Duration
	SessionCapacity    int
	MaxUtteranceLength int

	DefaultRegion string
	MongoURI      string
	MongoDatabase string
}

// LoadEnv reads a .env file into the process environment. A missing file is
// reported but not fatal, the environment may already be populated.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("could not load env file %s: %v", path, err)
		return err
	}
	return nil
}

// GetEnv returns the value of key or fallback when it is unset.
func GetEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// Load builds a Config from the environment. All missing required variables
// and malformed values are reported together.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:     GetEnv("PORT", "8000"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		LogJSON:  getBool("LOG_JSON", true, &errs),

		GeminiAPIKey:      required("GEMINI_API_KEY", &errs),
		GeminiModel:       GetEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:     GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		GenerationTimeout: getDuration("GENERATION_TIMEOUT", 15*time.Second, &errs),

		DispatchProvider: strings.ToLower(GetEnv("DISPATCH_PROVIDER", DispatchProviderTwilio)),
		DispatchTimeout:  getDuration("DISPATCH_TIMEOUT", 10*time.Second, &errs),
		ChatDispatchMode: strings.ToLower(GetEnv("CHAT_DISPATCH_MODE", ChatDispatchInline)),
		PublicBaseURL:    strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:8000"), "/"),

		VoicePersona:       GetEnv("VOICE_PERSONA", "Polly.Joanna"),
		VoiceLanguage:      GetEnv("VOICE_LANGUAGE", "en-US"),
		GatherTimeout:      getInt("GATHER_TIMEOUT", 10, &errs),
		SpeechTimeout:      GetEnv("SPEECH_TIMEOUT", "auto"),
		TerminationPhrases: getList("TERMINATION_PHRASES", DefaultTerminationPhrases),
		GenerationRetryCap: getInt("GENERATION_RETRY_CAP", 1, &errs),
		SilenceRepromptCap: getInt("SILENCE_REPROMPT_CAP", 2, &errs),
		SessionTTL:         getDuration("SESSION_TTL", 30*time.Minute, &errs),
		SessionCapacity:    getInt("SESSION_CAPACITY", 10000, &errs),
		MaxUtteranceLength: getInt("MAX_UTTERANCE_LENGTH", 2000, &errs),

		DefaultRegion: strings.ToUpper(GetEnv("DEFAULT_REGION", "US")),
		MongoURI:      GetEnv("MONGODB_URI", ""),
		MongoDatabase: GetEnv("MONGODB_DATABASE", "chemo_users_db"),
	}

	switch cfg.DispatchProvider {
	case DispatchProviderTwilio:
		cfg.TwilioAccountSID = required("TWILIO_ACCOUNT_SID", &errs)
		cfg.TwilioAuthToken = required("TWILIO_AUTH_TOKEN", &errs)
		cfg.TwilioPhoneNumber = required("TWILIO_PHONE_NUMBER", &errs)
		cfg.TwilioVoiceNumber = GetEnv("TWILIO_VOICE_NUMBER", "")
	case DispatchProviderInfobip:
		cfg.InfobipURL = strings.TrimRight(required("INFOBIP_URL", &errs), "/")
		cfg.InfobipClientID = required("INFOBIP_CLIENT_ID", &errs)
		cfg.InfobipClientSecret = required("INFOBIP_CLIENT_SECRET", &errs)
		cfg.WhatsAppPhoneNumber = required("WHATSAPP_PHONE_NUMBER", &errs)
	default:
		errs = append(errs, fmt.Errorf("DISPATCH_PROVIDER must be %q or %q, got %q", DispatchProviderTwilio, DispatchProviderInfobip, cfg.DispatchProvider))
	}

	if cfg.ChatDispatchMode != ChatDispatchInline && cfg.ChatDispatchMode != ChatDispatchBackground {
		errs = append(errs, fmt.Errorf("CHAT_DISPATCH_MODE must be %q or %q, got %q", ChatDispatchInline, ChatDispatchBackground, cfg.ChatDispatchMode))
	}
	if cfg.GenerationRetryCap < 0 {
		errs = append(errs, fmt.Errorf("GENERATION_RETRY_CAP must not be negative"))
	}
	if cfg.SilenceRepromptCap < 0 {
		errs = append(errs, fmt.Errorf("SILENCE_REPROMPT_CAP must not be negative"))
	}
	if cfg.GatherTimeout < 0 {
		errs = append(errs, fmt.Errorf("GATHER_TIMEOUT must not be negative"))
	}
	if cfg.SessionCapacity <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_CAPACITY must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func required(key string, errs *[]error) string {
	value := GetEnv(key, "")
	if value == "" {
		*errs = append(*errs, fmt.Errorf("environment variable %s is required but not set", key))
	}
	return value
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return value
}

func getBool(key string, fallback bool, errs *[]error) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	if value <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be positive", key))
		return fallback
	}
	return value
}

func getList(key string, fallback []string) []string {
	raw := GetEnv(key, "")
	if raw == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
