package env

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyPlannerBackend = "PLANNER_BACKEND"
	KeyOpenAIAPIKey   = "OPENAI_API_KEY"
	KeyOpenAIModel    = "OPENAI_MODEL"
	KeyOpenAIBaseURL  = "OPENAI_BASE_URL"
	KeyGeminiAPIKey   = "GEMINI_API_KEY"
	KeyGeminiModel    = "GEMINI_MODEL"
	KeySearchURL      = "SEARCH_URL"
	KeySearchField    = "SEARCH_FIELD"
	KeyImplicitWait   = "IMPLICIT_WAIT"
	KeySearchSettle   = "SEARCH_SETTLE"
	KeyLogLevel       = "LOG_LEVEL"
	KeyLogFile        = "LOG_FILE"
)

var defaults = map[string]any{
	KeyPlannerBackend: "openai",
	KeyOpenAIModel:    "gpt-4-1106-preview",
	KeyOpenAIBaseURL:  "https://api.openai.com/v1",
	KeyGeminiModel:    "gemini-2.0-flash",
	KeySearchURL:      "https://www.google.com",
	KeySearchField:    "q",
	KeyImplicitWait:   "5s",
	KeySearchSettle:   "2s",
	KeyLogLevel:       "info",
	KeyLogFile:        "log/agent.log",
}

type EnvService struct {
	v *viper.Viper
}

// NewEnvService loads .env and then .env.$APP_ENV (which overrides), and
// reads every setting from the process environment. There is no config file.
func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file with secrets found (this is OK for CI/CD)")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	return newEnvService()
}

func newEnvService() *EnvService {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return &EnvService{v: v}
}

func (e *EnvService) Get(key string) string {
	return strings.TrimSpace(e.v.GetString(key))
}

// GetDuration accepts Go duration strings ("750ms", "5s") and falls back to
// defaultValue for anything unparsable or negative.
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}

type Config struct {
	PlannerBackend string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	GeminiAPIKey   string
	GeminiModel    string
	SearchURL      string
	SearchField    string
	ImplicitWait   time.Duration
	SearchSettle   time.Duration
	LogLevel       string
	LogFile        string
}

// Config snapshots the settings. Credentials may be empty here; the planner
// reports their absence when it is asked to plan.
func (e *EnvService) Config() Config {
	return Config{
		PlannerBackend: strings.ToLower(e.Get(KeyPlannerBackend)),
		OpenAIAPIKey:   e.Get(KeyOpenAIAPIKey),
		OpenAIModel:    e.Get(KeyOpenAIModel),
		OpenAIBaseURL:  e.Get(KeyOpenAIBaseURL),
		GeminiAPIKey:   e.Get(KeyGeminiAPIKey),
		GeminiModel:    e.Get(KeyGeminiModel),
		SearchURL:      e.Get(KeySearchURL),
		SearchField:    e.Get(KeySearchField),
		ImplicitWait:   e.GetDuration(KeyImplicitWait, 5*time.Second),
		SearchSettle:   e.GetDuration(KeySearchSettle, 2*time.Second),
		LogLevel:       e.Get(KeyLogLevel),
		LogFile:        e.Get(KeyLogFile),
	}
}
