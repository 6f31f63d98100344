package request

type CreateMailAccount struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"omitempty,min=3,max=150"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Admin     bool   `json:"admin"`
}

type UpdateMailAccount struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
	Admin       bool   `json:"admin"`
}

type SetMailAccountPassword struct {
	Password string `json:"password" validate:"required,min=8"`
}
