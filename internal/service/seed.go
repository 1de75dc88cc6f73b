package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
	apperrors "github.com/elsanchez/social-dashboard/pkg/errors"
)

// SeedResult resume la carga de datos de demo
type SeedResult struct {
	Message  string `json:"message"`
	Accounts int    `json:"accounts,omitempty"`
	Posts    int    `json:"posts,omitempty"`
}

var demoAccounts = []domain.Account{
	{Platform: domain.PlatformTwitter, AccountName: "TechStartup", ExternalID: "techstartup_tw"},
	{Platform: domain.PlatformFacebook, AccountName: "TechStartup", ExternalID: "techstartup_fb"},
	{Platform: domain.PlatformInstagram, AccountName: "techstartup", ExternalID: "techstartup_ig"},
	{Platform: domain.PlatformLinkedIn, AccountName: "TechStartup Inc", ExternalID: "techstartup_li"},
}

var demoContents = []string{
	"Excited to announce our new product launch! 🚀",
	"Check out our latest blog post on industry trends",
	"Join us for our upcoming webinar next week!",
	"Customer success story: How we helped increase ROI by 300%",
	"Behind the scenes at our office today 📸",
	"New feature alert! Now you can do even more with our platform",
	"Thank you for 10K followers! Here's to many more milestones 🎉",
	"Quick tip: Here's how to maximize your productivity",
	"We're hiring! Check out our open positions",
	"Happy Friday! What are your weekend plans?",
}

var demoPostTypes = []domain.PostType{domain.PostTypeText, domain.PostTypeImage, domain.PostTypeVideo}

const (
	demoSnapshotDays      = 30
	demoPostsPerAccount   = 15
	demoScheduledAccounts = 2
	demoScheduledPerAcc   = 3
)

// Seeder carga datos de demo en una base vacía
type Seeder struct {
	accounts    repository.AccountRepository
	analytics   repository.AnalyticsRepository
	posts       repository.PostRepository
	engagement  repository.EngagementRepository
	invalidator *Invalidator
	logger      *zap.Logger
	clock       clockwork.Clock
	seed        uint64
}

// NewSeeder crea el seeder; seed fija la secuencia pseudoaleatoria
func NewSeeder(accounts repository.AccountRepository, analytics repository.AnalyticsRepository,
	posts repository.PostRepository, engagement repository.EngagementRepository,
	invalidator *Invalidator, logger *zap.Logger, clock clockwork.Clock, seed int64) *Seeder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Seeder{
		accounts:    accounts,
		analytics:   analytics,
		posts:       posts,
		engagement:  engagement,
		invalidator: invalidator,
		logger:      logger,
		clock:       clock,
		seed:        uint64(seed),
	}
}

// Seed carga cuentas, snapshots y posts. No hace nada si ya hay cuentas.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	count, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count accounts")
	}
	if count > 0 {
		return &SeedResult{Message: "Database already seeded"}, nil
	}

	rng := rand.New(rand.NewPCG(s.seed, s.seed))
	between := func(lo, hi int) int64 { return int64(lo + rng.IntN(hi-lo+1)) }
	now := s.clock.Now().UTC()

	ids := make([]int64, 0, len(demoAccounts))
	for _, tmpl := range demoAccounts {
		acc := tmpl
		acc.IsActive = true
		acc.CreatedAt = now

		id, err := s.accounts.Create(ctx, &acc)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to seed account")
		}
		ids = append(ids, id)
	}

	// 30 días de snapshots con followers crecientes
	for _, accountID := range ids {
		base := between(5000, 50000)
		for i := 0; i < demoSnapshotDays; i++ {
			snap := &domain.Snapshot{
				AccountID:       accountID,
				Date:            now.AddDate(0, 0, -(demoSnapshotDays - 1 - i)),
				Followers:       base + int64(i)*between(50, 200),
				Following:       between(100, 500),
				TotalPosts:      between(50, 200),
				TotalEngagement: between(1000, 5000),
				Reach:           between(10000, 100000),
				Impressions:     between(20000, 200000),
				ProfileViews:    between(500, 5000),
			}
			if _, err := s.analytics.Create(ctx, snap); err != nil {
				return nil, apperrors.Wrap(err, "failed to seed analytics")
			}
		}
	}

	posts := 0

	for _, accountID := range ids {
		for i := 0; i < demoPostsPerAccount; i++ {
			published := now.AddDate(0, 0, -int(between(0, 29))).Add(-time.Duration(between(0, 23)) * time.Hour)

			post := &domain.Post{
				AccountID:     accountID,
				Content:       demoContents[rng.IntN(len(demoContents))],
				Status:        domain.StatusPublished,
				PostType:      demoPostTypes[rng.IntN(len(demoPostTypes))],
				PublishedTime: &published,
				CreatedAt:     published.Add(-time.Hour),
				UpdatedAt:     published,
			}

			postID, err := s.posts.Create(ctx, post)
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to seed post")
			}
			posts++

			eng := domain.NewEngagement(postID, published)
			eng.Apply(domain.Metrics{
				Likes:    between(50, 1000),
				Comments: between(5, 100),
				Shares:   between(10, 200),
				Views:    between(500, 10000),
				Clicks:   between(20, 500),
			}, published)

			if err := s.engagement.Update(ctx, eng); err != nil {
				return nil, apperrors.Wrap(err, "failed to seed engagement")
			}
		}
	}

	for _, accountID := range ids[:demoScheduledAccounts] {
		for i := 0; i < demoScheduledPerAcc; i++ {
			scheduled := now.AddDate(0, 0, i+1).Add(time.Duration(between(9, 17)) * time.Hour)

			post := &domain.Post{
				AccountID:     accountID,
				Content:       fmt.Sprintf("Scheduled post for %s", scheduled.Format("January 02")),
				Status:        domain.StatusScheduled,
				PostType:      domain.PostTypeText,
				ScheduledTime: &scheduled,
				CreatedAt:     now,
				UpdatedAt:     now,
			}

			if _, err := s.posts.Create(ctx, post); err != nil {
				return nil, apperrors.Wrap(err, "failed to seed scheduled post")
			}
			posts++
		}
	}

	s.invalidator.Seeded(ctx)

	s.logger.Info("demo data seeded",
		zap.Int("accounts", len(ids)),
		zap.Int("posts", posts))

	return &SeedResult{
		Message:  "Database seeded successfully",
		Accounts: len(ids),
		Posts:    posts,
	}, nil
}
