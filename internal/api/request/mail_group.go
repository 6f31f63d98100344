package request

type CreateMailGroup struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

type AddGroupMember struct {
	AccountID string `json:"account_id" validate:"required"`
}
