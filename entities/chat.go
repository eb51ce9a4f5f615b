package entities

type Language string

const (
	LangBN Language = "bn"
	LangEN Language = "en"
)

// ParseLanguage maps free-form input to a supported language, defaulting to Bengali.
func ParseLanguage(s string) Language {
	if len(s) >= 2 && (s[:2] == "en" || s[:2] == "EN" || s[:2] == "En") {
		return LangEN
	}
	return LangBN
}

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

type ChatMessage struct {
	ID    string   `json:"id,omitempty"`
	Role  ChatRole `json:"role"`
	Text  string   `json:"text"`
	Image string   `json:"image,omitempty"`
}
