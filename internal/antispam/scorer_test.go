package antispam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanSubmission() Submission {
	return Submission{
		Name:      "João Silva",
		Email:     "joao.silva@gmail.com",
		Message:   "Hello, I would like to know more about the statistics course.",
		IP:        "203.0.113.10",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64)",
	}
}

func newScorer(t *testing.T, cfg Config) (*Scorer, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(cfg)
	t.Cleanup(func() { _ = store.Close() })
	return NewScorer(store, cfg), store
}

func TestCleanSubmissionAllowed(t *testing.T) {
	s, _ := newScorer(t, Config{})

	res, err := s.Score(context.Background(), cleanSubmission())
	require.NoError(t, err)
	assert.Equal(t, ActionAllow, res.Action)
	assert.False(t, res.IsSpam)
	assert.Less(t, res.Confidence, challengeThreshold)
}

func TestHoneypotBlocksOutright(t *testing.T) {
	s, _ := newScorer(t, Config{})

	sub := cleanSubmission()
	sub.Honeypot = "http://spam.example"
	res, err := s.Score(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, ActionBlock, res.Action)
	assert.True(t, res.IsSpam)
	assert.InDelta(t, 0.9, res.Confidence, 0.001)
	assert.Contains(t, res.Reasons, "honeypot filled")
}

func TestBlacklistedIPAlwaysBlocked(t *testing.T) {
	s, store := newScorer(t, Config{})
	require.NoError(t, store.Blacklist(context.Background(), "203.0.113.10"))

	res, err := s.Score(context.Background(), cleanSubmission())
	require.NoError(t, err)
	assert.Equal(t, ActionBlock, res.Action)
	assert.InDelta(t, 1.0, res.Confidence, 0.001)
	assert.Contains(t, res.Reasons, "ip blacklisted")
}

func TestSpamKeywordsBlock(t *testing.T) {
	s, _ := newScorer(t, Config{})

	sub := cleanSubmission()
	sub.Message = "buy now act now limited time before it is gone"
	res, err := s.Score(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, ActionBlock, res.Action)
	assert.True(t, res.IsSpam)
	assert.Contains(t, res.Reasons, "spam keywords")
}

func TestDisposableEmailChallenged(t *testing.T) {
	s, _ := newScorer(t, Config{})

	sub := cleanSubmission()
	sub.Email = "someone@mailinator.com"
	res, err := s.Score(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, ActionChallenge, res.Action)
	assert.False(t, res.IsSpam)
	assert.Contains(t, res.Reasons, "disposable email domain")
}

func TestShoutingAloneIsNotEnough(t *testing.T) {
	s, _ := newScorer(t, Config{})

	sub := cleanSubmission()
	sub.Message = "I REALLY NEED HELP WITH MY THESIS PLEASE ANSWER"
	res, err := s.Score(context.Background(), sub)
	require.NoError(t, err)
	assert.Contains(t, res.Reasons, "shouting")
	assert.Equal(t, ActionAllow, res.Action)
}

func TestBotUserAgentFlagged(t *testing.T) {
	s, _ := newScorer(t, Config{})

	sub := cleanSubmission()
	sub.UserAgent = "python-requests/2.28"
	res, err := s.Score(context.Background(), sub)
	require.NoError(t, err)
	assert.Contains(t, res.Reasons, "bot user agent")
	assert.Equal(t, ActionChallenge, res.Action)
}

func TestGenericNameAddsWeight(t *testing.T) {
	s, _ := newScorer(t, Config{})

	sub := cleanSubmission()
	sub.Name = "Teste"
	res, err := s.Score(context.Background(), sub)
	require.NoError(t, err)
	assert.Contains(t, res.Reasons, "generic name")
}

func TestRepeatOffenderAutoBlacklisted(t *testing.T) {
	cfg := Config{AutoBlockThreshold: 3}
	s, store := newScorer(t, cfg)

	sub := cleanSubmission()
	sub.Honeypot = "filled"
	for i := 0; i < 3; i++ {
		_, err := s.Score(context.Background(), sub)
		require.NoError(t, err)
	}

	listed, err := store.IsBlacklisted(context.Background(), sub.IP)
	require.NoError(t, err)
	assert.True(t, listed)

	// Even a clean submission is now rejected at the door.
	res, err := s.Score(context.Background(), cleanSubmission())
	require.NoError(t, err)
	assert.Equal(t, ActionBlock, res.Action)
	assert.Contains(t, res.Reasons, "ip blacklisted")
}

func TestRateLimitBlocksBurst(t *testing.T) {
	cfg := Config{MaxRequests: 3}
	s, _ := newScorer(t, cfg)

	var res Result
	var err error
	for i := 0; i < 4; i++ {
		res, err = s.Score(context.Background(), cleanSubmission())
		require.NoError(t, err)
	}
	assert.Equal(t, ActionBlock, res.Action)
	assert.Contains(t, res.Reasons, "rate limit exceeded")
}
