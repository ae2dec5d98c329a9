package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	ProfilesDir       string
	OutputDir         string
	WorkDir           string
	Port              string
	SchedulerInterval int
	CallTimeout       int
	APIAccessKey      string

	// External service credentials
	YoutubeAPIKey string
	GeminiAPIKey  string
	GeminiModel   string

	// Email delivery
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	Recipient    string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
