package feed

import (
	"regexp"
	"strings"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

// ThreadingConfig bounds the greedy thread-building walk.
type ThreadingConfig struct {
	// ScanWindow is how many items ahead of a candidate primary are examined
	// for relationships.
	ScanWindow int

	// MaxReplyAge is the largest timestamp gap allowed between a primary and
	// any of its replies.
	MaxReplyAge time.Duration

	// MaxVisibleReplies is how many replies stay visible before the remainder
	// is compressed into a collapsed count.
	MaxVisibleReplies int
}

// DefaultThreadingConfig returns the bounds used in production.
func DefaultThreadingConfig() ThreadingConfig {
	return ThreadingConfig{
		ScanWindow:        20,
		MaxReplyAge:       7 * 24 * time.Hour,
		MaxVisibleReplies: 5,
	}
}

// Threader groups a time-descending item stream into conversation threads.
type Threader struct {
	cfg ThreadingConfig
}

// NewThreader constructs a Threader, substituting defaults for unset fields.
func NewThreader(cfg ThreadingConfig) *Threader {
	def := DefaultThreadingConfig()
	if cfg.ScanWindow <= 0 {
		cfg.ScanWindow = def.ScanWindow
	}
	if cfg.MaxReplyAge <= 0 {
		cfg.MaxReplyAge = def.MaxReplyAge
	}
	if cfg.MaxVisibleReplies <= 0 {
		cfg.MaxVisibleReplies = def.MaxVisibleReplies
	}
	return &Threader{cfg: cfg}
}

// BuildThreads walks items in order, claiming related follow-ups for each
// unused primary. Input must already be sorted by timestamp descending; the
// walk is greedy and single-pass, so an item that could relate to two
// primaries belongs to whichever primary is processed first. Every input item
// lands in exactly one thread.
func (t *Threader) BuildThreads(items []models.ActivityItem) []models.ActivityThread {
	used := make([]bool, len(items))
	threads := make([]models.ActivityThread, 0, len(items))

	for i, primary := range items {
		if used[i] {
			continue
		}
		used[i] = true

		var replies []models.ActivityItem
		if isThreadRoot(primary.Source) {
			end := i + 1 + t.cfg.ScanWindow
			if end > len(items) {
				end = len(items)
			}
			for j := i + 1; j < end; j++ {
				if used[j] {
					continue
				}
				candidate := items[j]
				if timestampGap(primary.Timestamp, candidate.Timestamp) > t.cfg.MaxReplyAge {
					continue
				}
				if relatesTo(primary, candidate) {
					replies = append(replies, candidate)
					used[j] = true
				}
			}
		}

		thread := models.ActivityThread{
			ID:        primary.ID,
			Primary:   primary,
			Replies:   replies,
			Timestamp: primary.Timestamp,
		}
		if len(replies) > t.cfg.MaxVisibleReplies {
			thread.Replies = replies[:t.cfg.MaxVisibleReplies]
			thread.CollapsedCount = len(replies) - t.cfg.MaxVisibleReplies
		}
		threads = append(threads, thread)
	}

	return threads
}

// isThreadRoot reports whether a source can anchor a thread. Exhaustive over
// the source enumeration so a new source forces this switch to be revisited.
func isThreadRoot(s models.Source) bool {
	switch s {
	case models.SourceContentPublication, models.SourceProjectLaunch, models.SourceCodeCommit:
		return true
	case models.SourceSiteUpdate, models.SourceMilestone, models.SourceTrendingSignal,
		models.SourceHighEngagement, models.SourceCertification, models.SourceTrafficAnalytics,
		models.SourceRepositoryTraffic, models.SourceSearchRanking:
		return false
	}
	return false
}

// relatesTo applies the per-source relationship rules from the primary's point
// of view.
func relatesTo(primary, candidate models.ActivityItem) bool {
	switch primary.Source {
	case models.SourceContentPublication:
		return contentFollowUp(primary, candidate)
	case models.SourceProjectLaunch:
		return projectFollowUp(primary, candidate)
	case models.SourceCodeCommit:
		return commitSibling(primary, candidate)
	}
	return false
}

// contentFollowUp matches engagement signals back to the content that earned
// them: either the titles agree exactly or the signal carries the content's id
// as its parent key.
func contentFollowUp(content, candidate models.ActivityItem) bool {
	switch candidate.Source {
	case models.SourceMilestone, models.SourceTrendingSignal, models.SourceHighEngagement:
	default:
		return false
	}
	if strings.EqualFold(candidate.Title, content.Title) {
		return true
	}
	return candidate.Meta != nil && candidate.Meta.ParentContentID != "" &&
		candidate.Meta.ParentContentID == content.ID
}

// projectFollowUp matches commits on the project's repository and releases
// whose titles overlap the project's.
func projectFollowUp(project, candidate models.ActivityItem) bool {
	if candidate.Source == models.SourceCodeCommit {
		key := repoKey(project)
		return key != "" && key == repoKey(candidate)
	}
	if candidate.Verb == models.VerbReleased {
		return titlesOverlap(project.Title, candidate.Title)
	}
	return false
}

// commitSibling groups commits to the same repository on the same calendar day.
func commitSibling(commit, candidate models.ActivityItem) bool {
	if candidate.Source != models.SourceCodeCommit {
		return false
	}
	key := repoKey(commit)
	if key == "" || key != repoKey(candidate) {
		return false
	}
	return sameCalendarDay(commit.Timestamp, candidate.Timestamp)
}

// repoPattern matches an owner/name token. Deliberately narrow: a missed match
// yields a singleton thread, which is the safe failure mode.
var repoPattern = regexp.MustCompile(`\b[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+\b`)

// repoKey returns the item's repository correlation key, preferring the
// explicit metadata key and falling back to an owner/name token in the title.
func repoKey(item models.ActivityItem) string {
	if item.Meta != nil && item.Meta.RepoName != "" {
		return strings.ToLower(item.Meta.RepoName)
	}
	return strings.ToLower(repoPattern.FindString(item.Title))
}

func titlesOverlap(a, b string) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func timestampGap(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d
}
