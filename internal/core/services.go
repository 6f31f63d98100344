package core

type Services struct {
	MailAccount *MailAccountService
	MailAlias   *MailAliasService
	MailQuota   *MailQuotaService
	MailGroup   *MailGroupService
	APIKey      *APIKeyService
	DMSStore    *DMSStore
}

func NewServices(db DB) *Services {
	return &Services{
		MailAccount: NewMailAccountService(db),
		MailAlias:   NewMailAliasService(db),
		MailQuota:   NewMailQuotaService(db),
		MailGroup:   NewMailGroupService(db),
		APIKey:      NewAPIKeyService(db),
		DMSStore:    NewDMSStore(db),
	}
}
