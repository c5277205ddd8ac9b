package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Ingestion configuration
	FetchTimeout        int // seconds
	DiscoverySuccessTTL int // seconds
	DiscoveryFailureTTL int // seconds

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
