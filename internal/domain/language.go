package domain

import "sort"

// Language identifies a runtime of the remote executor
type Language struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Judge0 CE language ids
var knownLanguages = map[int]string{
	50: "c",
	54: "cpp",
	60: "go",
	62: "java",
	63: "javascript",
	71: "python",
	72: "ruby",
	73: "rust",
	74: "typescript",
}

// LanguageName returns the short name of a language id, or "unknown"
func LanguageName(id int) string {
	if name, ok := knownLanguages[id]; ok {
		return name
	}
	return "unknown"
}

// KnownLanguages returns every known language ordered by id
func KnownLanguages() []Language {
	langs := make([]Language, 0, len(knownLanguages))
	for id, name := range knownLanguages {
		langs = append(langs, Language{ID: id, Name: name})
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].ID < langs[j].ID })
	return langs
}
