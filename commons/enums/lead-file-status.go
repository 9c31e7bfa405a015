package enums

const (
	PENDING         = "pending"
	DOWNLOADING     = "downloading"
	DOWNLOAD_FAILED = "download_failed"
	IMPORTING       = "importing"
	IMPORT_FAILED   = "import_failed"
	IMPORTED        = "imported"
)

const (
	LEAD_NEW       = "new"
	LEAD_CONTACTED = "contacted"
	LEAD_QUOTED    = "quoted"
	LEAD_WON       = "won"
	LEAD_LOST      = "lost"
)
