package api

// Request DTOs

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Color       string  `json:"color,omitempty"`
	Description string  `json:"description,omitempty"`
	IsPrivate   bool    `json:"is_private,omitempty"`
	StartDate   *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     *string `json:"end_date,omitempty"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPrivate   *bool   `json:"is_private,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member moderator"`
}

type CreateCommentRequest struct {
	Text     string `json:"text" validate:"required"`
	ParentId *int64 `json:"parent_id,omitempty"`
}

type UpdatePostRequest struct {
	Caption *string `json:"caption,omitempty"`
}
