package types

// UserSummary is the part of a GitHub user record the lookup page shows.
type UserSummary struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}
