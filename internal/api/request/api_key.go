package request

type CreateAPIKey struct {
	Name   string   `json:"name" validate:"required,min=1,max=150"`
	Scopes []string `json:"scopes"`
}
