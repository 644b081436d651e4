package mail

type ImportSummaryData struct {
	CampaignName string
	Imported     int
	Duplicates   int
	Invalid      int
	DNCSkipped   int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	dialer Dialer
}
