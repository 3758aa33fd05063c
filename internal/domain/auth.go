package domain

// AnonymousOwner owns runs started without an authenticated user
const AnonymousOwner = "anonymous"

type AuthPayload struct {
	Username   string   `json:"username"`
	Permission []string `json:"permission"`
}
