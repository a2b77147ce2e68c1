package cfg

type Cfg struct {
	// Crawl target
	URL         string
	SiteProfile string

	// Run parameters channel
	WorkItemFile string

	// Output
	OutputDir string
	DBFile    string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
