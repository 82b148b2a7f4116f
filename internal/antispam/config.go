package antispam

import "time"

// Config holds every scoring knob. Zero values are replaced by the defaults
// below, so Scorer{Config: Config{}} behaves like DefaultConfig().
type Config struct {
	MaxRequests   int           // per IP per window
	Window        time.Duration // rate-limit window
	BlockDuration time.Duration // how long an IP stays blocked after exceeding

	MinMessageLen int
	MaxMessageLen int
	MaxLinks      int

	// AutoBlockThreshold is the strike count after which an IP goes on the
	// blacklist. Strikes are recorded on every block or challenge.
	AutoBlockThreshold int

	CleanupInterval time.Duration
	StrikeTTL       time.Duration

	SpamKeywords       []string
	SuspiciousKeywords []string
	DisposableDomains  []string
	GenericNames       []string
}

func DefaultConfig() Config {
	return Config{
		MaxRequests:        5,
		Window:             time.Minute,
		BlockDuration:      15 * time.Minute,
		MinMessageLen:      10,
		MaxMessageLen:      5000,
		MaxLinks:           2,
		AutoBlockThreshold: 5,
		CleanupInterval:    5 * time.Minute,
		StrikeTTL:          24 * time.Hour,
		SpamKeywords: []string{
			"buy now", "act now", "limited time", "click here", "free money",
			"100% free", "earn money fast", "make money online", "winner",
			"congratulations you won", "viagra", "casino", "lottery",
			"crypto investment", "double your",
		},
		SuspiciousKeywords: []string{
			"urgent", "offer", "discount", "promotion", "cheap", "guarantee",
			"no risk", "instant", "exclusive", "deal",
		},
		DisposableDomains: []string{
			"mailinator.com", "guerrillamail.com", "10minutemail.com",
			"tempmail.com", "trashmail.com", "yopmail.com", "sharklasers.com",
		},
		GenericNames: []string{
			"test", "teste", "admin", "user", "name", "asdf", "qwerty", "john doe",
		},
	}
}

// withDefaults fills unset fields in place.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxRequests <= 0 {
		c.MaxRequests = d.MaxRequests
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.BlockDuration <= 0 {
		c.BlockDuration = d.BlockDuration
	}
	if c.MinMessageLen <= 0 {
		c.MinMessageLen = d.MinMessageLen
	}
	if c.MaxMessageLen <= 0 {
		c.MaxMessageLen = d.MaxMessageLen
	}
	if c.MaxLinks <= 0 {
		c.MaxLinks = d.MaxLinks
	}
	if c.AutoBlockThreshold <= 0 {
		c.AutoBlockThreshold = d.AutoBlockThreshold
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.StrikeTTL <= 0 {
		c.StrikeTTL = d.StrikeTTL
	}
	if c.SpamKeywords == nil {
		c.SpamKeywords = d.SpamKeywords
	}
	if c.SuspiciousKeywords == nil {
		c.SuspiciousKeywords = d.SuspiciousKeywords
	}
	if c.DisposableDomains == nil {
		c.DisposableDomains = d.DisposableDomains
	}
	if c.GenericNames == nil {
		c.GenericNames = d.GenericNames
	}
	return c
}
