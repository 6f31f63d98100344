package request

type CreateMailAlias struct {
	Alias string `json:"alias" validate:"required,email"`
}
