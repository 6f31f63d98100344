package request

type SetMailQuota struct {
	SizeValue int64  `json:"size_value" validate:"required,gt=0"`
	Suffix    string `json:"suffix" validate:"required,quota_suffix"`
}
