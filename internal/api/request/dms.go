package request

type ScanDMS struct {
	DryRun bool `json:"dry_run"`
}
