package antispam

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/studahub/backend/pkg/logger"
)

type Action string

const (
	ActionAllow     Action = "allow"
	ActionChallenge Action = "challenge"
	ActionBlock     Action = "block"
)

// Decision thresholds: at or above blockThreshold the submission is spam and
// blocked outright; between the two it must pass a CAPTCHA.
const (
	blockThreshold     = 0.7
	challengeThreshold = 0.4
)

type Submission struct {
	Name      string
	Email     string
	Message   string
	IP        string
	UserAgent string
	// Honeypot is a hidden form field; humans leave it empty.
	Honeypot string
}

type Result struct {
	IsSpam     bool     `json:"is_spam"`
	Confidence float64  `json:"confidence"`
	Action     Action   `json:"action"`
	Reasons    []string `json:"reasons,omitempty"`
}

var (
	linkRe      = regexp.MustCompile(`https?://|www\.`)
	emailDigits = regexp.MustCompile(`\d{5,}`)
	emailJunk   = regexp.MustCompile(`^(test|spam|fake|noreply|no-reply)\d*@`)
	botAgents   = []string{"bot", "crawler", "spider", "curl", "wget", "python-requests", "scrapy"}
)

// Scorer combines hard blocks, rate limiting, content analysis and
// behavioral checks into a single confidence score per submission.
type Scorer struct {
	cfg   Config
	store Store
}

func NewScorer(store Store, cfg Config) *Scorer {
	return &Scorer{cfg: cfg.withDefaults(), store: store}
}

// Score evaluates one submission. Every block or challenge records a strike;
// an IP reaching the auto-block threshold is added to the blacklist.
func (s *Scorer) Score(ctx context.Context, sub Submission) (Result, error) {
	// Hard blocks first: blacklisted IP, then honeypot.
	listed, err := s.store.IsBlacklisted(ctx, sub.IP)
	if err != nil {
		return Result{}, err
	}
	if listed {
		return s.finish(ctx, sub.IP, Result{
			IsSpam: true, Confidence: 1.0, Action: ActionBlock,
			Reasons: []string{"ip blacklisted"},
		})
	}
	if strings.TrimSpace(sub.Honeypot) != "" {
		return s.finish(ctx, sub.IP, Result{
			IsSpam: true, Confidence: 0.9, Action: ActionBlock,
			Reasons: []string{"honeypot filled"},
		})
	}

	over, err := s.store.Hit(ctx, sub.IP)
	if err != nil {
		return Result{}, err
	}
	if over {
		return s.finish(ctx, sub.IP, Result{
			IsSpam: true, Confidence: 0.8, Action: ActionBlock,
			Reasons: []string{"rate limit exceeded"},
		})
	}

	confidence, reasons := s.analyze(sub)
	res := Result{Confidence: confidence, Reasons: reasons, Action: ActionAllow}
	switch {
	case confidence >= blockThreshold:
		res.IsSpam = true
		res.Action = ActionBlock
	case confidence >= challengeThreshold:
		res.Action = ActionChallenge
	}
	return s.finish(ctx, sub.IP, res)
}

// finish records strikes for blocks and challenges and auto-blacklists
// repeat offenders before returning.
func (s *Scorer) finish(ctx context.Context, ip string, res Result) (Result, error) {
	if res.Action == ActionAllow {
		return res, nil
	}
	strikes, err := s.store.Strike(ctx, ip)
	if err != nil {
		return res, err
	}
	if strikes >= s.cfg.AutoBlockThreshold {
		if err := s.store.Blacklist(ctx, ip); err != nil {
			return res, err
		}
		logger.Warn("ip auto-blacklisted",
			zap.String("ip", ip), zap.Int("strikes", strikes))
	}
	return res, nil
}

// analyze runs the weighted content and behavioral checks; the sum is capped
// at 1.0.
func (s *Scorer) analyze(sub Submission) (float64, []string) {
	var conf float64
	var reasons []string
	add := func(w float64, reason string) {
		conf += w
		reasons = append(reasons, reason)
	}

	msg := strings.ToLower(sub.Message)

	if n := len(sub.Message); n < s.cfg.MinMessageLen || n > s.cfg.MaxMessageLen {
		add(0.3, "message length out of bounds")
	}

	if hits := countKeywords(msg, s.cfg.SpamKeywords); hits > 0 {
		w := 0.3 * float64(hits)
		if w > 0.8 {
			w = 0.8
		}
		add(w, "spam keywords")
	}
	if hits := countKeywords(msg, s.cfg.SuspiciousKeywords); hits > 2 {
		add(0.4, "suspicious keywords")
	}
	if links := len(linkRe.FindAllString(msg, -1)); links > s.cfg.MaxLinks {
		add(0.5, "too many links")
	}
	if repetitiveContent(msg) {
		add(0.4, "repetitive content")
	}
	if capsRatio(sub.Message) > 0.7 {
		add(0.3, "shouting")
	}
	if suspiciousEmail(strings.ToLower(sub.Email)) {
		add(0.3, "suspicious email pattern")
	}

	ua := strings.ToLower(strings.TrimSpace(sub.UserAgent))
	if ua == "" {
		add(0.4, "empty user agent")
	} else {
		for _, b := range botAgents {
			if strings.Contains(ua, b) {
				add(0.4, "bot user agent")
				break
			}
		}
	}

	name := strings.ToLower(strings.TrimSpace(sub.Name))
	for _, g := range s.cfg.GenericNames {
		if name == g {
			add(0.2, "generic name")
			break
		}
	}

	if domain := emailDomain(sub.Email); domain != "" {
		for _, d := range s.cfg.DisposableDomains {
			if domain == d {
				add(0.6, "disposable email domain")
				break
			}
		}
	}

	if conf > 1.0 {
		conf = 1.0
	}
	return conf, reasons
}

func countKeywords(msg string, keywords []string) int {
	hits := 0
	for _, k := range keywords {
		if strings.Contains(msg, k) {
			hits++
		}
	}
	return hits
}

// repetitiveContent reports whether any word longer than 4 chars makes up
// more than 30% of the message's words.
func repetitiveContent(msg string) bool {
	words := strings.Fields(msg)
	if len(words) < 5 {
		return false
	}
	freq := make(map[string]int)
	for _, w := range words {
		if len(w) > 4 {
			freq[w]++
		}
	}
	for _, n := range freq {
		if float64(n) > 0.3*float64(len(words)) {
			return true
		}
	}
	return false
}

func capsRatio(msg string) float64 {
	var letters, upper int
	for _, r := range msg {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters < 10 {
		return 0
	}
	return float64(upper) / float64(letters)
}

func suspiciousEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return false
	}
	return emailDigits.MatchString(email[:at]) || emailJunk.MatchString(email)
}

func emailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
