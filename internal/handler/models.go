package handler

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type NewGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// UpdateGroupRequest - roles и version необязательны
type UpdateGroupRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []string  `json:"members"`
	Roles       *[]string `json:"roles,omitempty"`
	Version     *int      `json:"version,omitempty"`
}

type RolesRequest struct {
	Roles []string `json:"roles"`
}

type GroupResponse struct {
	ID          string   `json:"id"`
	Domain      string   `json:"domain"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
	Roles       []string `json:"roles"`
	Version     int      `json:"version"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type GroupPageResponse struct {
	Data        []GroupResponse `json:"data"`
	CurrentPage int             `json:"current_page"`
	TotalCount  int             `json:"total_count"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type MemberPageResponse struct {
	Data        []UserResponse `json:"data"`
	CurrentPage int            `json:"current_page"`
	TotalCount  int            `json:"total_count"`
}

type AuditEventResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	ActorID   string         `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	OldValue  *GroupResponse `json:"old_value,omitempty"`
	NewValue  *GroupResponse `json:"new_value,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type AuditEventsResponse struct {
	Events []AuditEventResponse `json:"events"`
}
