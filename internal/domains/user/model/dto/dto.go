package dto

import (
	"motel/internal/domains/user/model"
	"motel/permissions"
	"motel/shared"
	gDto "motel/shared/dto"
	gModel "motel/shared/model"
	"motel/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Username string  `json:"username"            validate:"required,min=3,max=50"`
	Email    string  `json:"email"               validate:"required,email"`
	Password string  `json:"password"            validate:"required,min=8"`
	Role     string  `json:"role"                validate:"omitempty,oneof=super_admin admin receptionist"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty"     validate:"omitempty,max=15"`
}

// TargetRole returns the requested role, defaulting to receptionist.
func (r *CreateUserRequest) TargetRole() permissions.Role {
	if r.Role == "" {
		return permissions.RoleReceptionist
	}

	return permissions.Role(r.Role)
}

func (r *CreateUserRequest) ToModel(creator string, hashedPassword string) model.User {
	return model.User{
		ID:       uuid.NewString(),
		Username: r.Username,
		Email:    r.Email,
		Password: hashedPassword,
		Role:     string(r.TargetRole()),
		FullName: r.FullName,
		Phone:    r.Phone,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  creator,
			ModifiedBy: creator,
		},
	}
}

type UpdateUserRequest struct {
	Email    string  `db:"email"     json:"email,omitempty"     validate:"omitempty,email"`
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,max=100"`
	Phone    *string `db:"phone"     json:"phone,omitempty"     validate:"omitempty,max=15"`
	Role     string  `db:"role"      json:"role,omitempty"      validate:"omitempty,oneof=super_admin admin receptionist"`
	Active   *bool   `db:"active"    json:"active,omitempty"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Username = model.Username
	r.Email = model.Email
	r.Role = model.Role
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.Active = model.Active
	r.LastLogin = model.LastLogin
	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
