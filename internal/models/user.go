package models

// UserProfile represents a user's public profile and their projects
type UserProfile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	FullName       string    `json:"full_name"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
	ProjectsCount  int       `json:"projects_count"`
	Projects       []Project `json:"projects,omitempty"`
}

// ProfileUpdate holds the editable text attributes of a profile.
// Nil fields are left unchanged by the service.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}
