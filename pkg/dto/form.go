package dto

import "github.com/google/uuid"

type OpenFormRequest struct {
	TeamID *uuid.UUID `json:"team_id,omitempty"`
}

// PatchFormRequest carries the scalar fields of a form patch. Absent fields
// are left untouched.
type PatchFormRequest struct {
	Name           *string `json:"name,omitempty"`
	NewAdminEmail  *string `json:"new_admin_email,omitempty"`
	NewMemberEmail *string `json:"new_member_email,omitempty"`
}

type AddFormMemberRequest struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

type AlertResponse struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type FormResponse struct {
	ID             uuid.UUID        `json:"id"`
	Mode           string           `json:"mode"`
	TeamID         *uuid.UUID       `json:"team_id,omitempty"`
	Name           string           `json:"name"`
	NewAdminEmail  string           `json:"new_admin_email"`
	NewMemberEmail string           `json:"new_member_email"`
	Admins         []MemberPayload  `json:"admins"`
	Members        []MemberPayload  `json:"members"`
	Projects       []ProjectPayload `json:"projects"`
	Submitting     bool             `json:"submitting"`
	Alert          *AlertResponse   `json:"alert,omitempty"`
}

type SubmitFormResponse struct {
	Submitting bool `json:"submitting"`
}

type AddFormProjectResponse struct {
	Project ProjectPayload `json:"project"`
}
