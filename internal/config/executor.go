package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"gitlab.com/codepad.net/internal/domain"
)

const defaultLanguageID = 71

type ExecutorConfig struct {
	Url           string
	RapidAPIKey   string
	RapidAPIHost  string
	AuthToken     string
	LanguageID    int
	Timeout       time.Duration
	AllowedLangID mapset.Set[int]
}

func NewExecutorConfig() *ExecutorConfig {
	languageID, err := strconv.Atoi(os.Getenv("EXECUTOR_LANGUAGE_ID"))
	if err != nil || languageID <= 0 {
		languageID = defaultLanguageID
	}
	allowed := parseLanguageSet(os.Getenv("EXECUTOR_ALLOWED_LANGUAGES"))
	allowed.Add(languageID)

	return &ExecutorConfig{
		Url:           strings.TrimRight(getEnv("EXECUTOR_URL", "https://judge0-ce.p.rapidapi.com"), "/"),
		RapidAPIKey:   os.Getenv("EXECUTOR_RAPIDAPI_KEY"),
		RapidAPIHost:  os.Getenv("EXECUTOR_RAPIDAPI_HOST"),
		AuthToken:     os.Getenv("EXECUTOR_AUTH_TOKEN"),
		LanguageID:    languageID,
		Timeout:       secondsEnv("EXECUTOR_TIMEOUT_SEC", 30),
		AllowedLangID: allowed,
	}
}

// parseLanguageSet reads a comma separated id list; empty means every known language
func parseLanguageSet(raw string) mapset.Set[int] {
	set := mapset.NewSet[int]()
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			continue
		}
		set.Add(id)
	}
	if set.Cardinality() == 0 {
		for _, lang := range domain.KnownLanguages() {
			set.Add(lang.ID)
		}
	}
	return set
}

// ResolveLanguage maps a requested id to the one to run; zero selects the default
func (c *ExecutorConfig) ResolveLanguage(requested int) (int, bool) {
	if requested == 0 {
		return c.LanguageID, true
	}
	return requested, c.AllowedLangID.Contains(requested)
}

// AllowedLanguages lists the allowed languages ordered by id
func (c *ExecutorConfig) AllowedLanguages() []domain.Language {
	langs := make([]domain.Language, 0, c.AllowedLangID.Cardinality())
	for _, lang := range domain.KnownLanguages() {
		if c.AllowedLangID.Contains(lang.ID) {
			langs = append(langs, lang)
		}
	}
	for _, id := range mapset.Sorted(c.AllowedLangID) {
		if domain.LanguageName(id) == "unknown" {
			langs = append(langs, domain.Language{ID: id, Name: "unknown"})
		}
	}
	return langs
}
