package model

// DirectoryEntry is one remote user record. Entries are never mutated after
// they are fetched.
type DirectoryEntry struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// FullName returns "first last".
func (e DirectoryEntry) FullName() string {
	return e.FirstName + " " + e.LastName
}

type DirectoryState struct {
	Entries    []DirectoryEntry `json:"entries"`
	NextPage   int              `json:"next_page"`
	Loading    bool             `json:"loading"`
	HasMore    bool             `json:"has_more"`
	SearchText string           `json:"search_text"`
	LastError  string           `json:"last_error,omitempty"`
}
