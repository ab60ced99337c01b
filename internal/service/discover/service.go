package discover

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/campusmatch/campusmatch/internal/app"
	svcErr "github.com/campusmatch/campusmatch/internal/errors"
	"github.com/campusmatch/campusmatch/internal/repository"
	"github.com/campusmatch/campusmatch/internal/scoring"

	"gorm.io/gorm"
)

// DefaultPoolSize bounds one discovery call when config does not override it.
const DefaultPoolSize = 20

// Service produces the ranked candidate pool for a requester.
// Pure reads: no shared mutable state, safe under unbounded concurrency.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	poolSize    int
}

// NewService creates a discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, poolSize int) *Service {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		poolSize:    poolSize,
	}
}

// CandidateView is one ranked entry of the discovery response.
type CandidateView struct {
	UserID           uint64            `json:"user_id"`
	FirstName        string            `json:"first_name"`
	CollegeName      string            `json:"college_name"`
	Bio              string            `json:"bio"`
	Pictures         []string          `json:"pictures"`
	Gender           string            `json:"gender"`
	Age              int               `json:"age"`
	HeightCm         uint16            `json:"height_cm,omitempty"`
	Occupation       string            `json:"occupation,omitempty"`
	RelationshipGoal string            `json:"relationship_goal,omitempty"`
	LookingFor       string            `json:"looking_for,omitempty"`
	Interests        []string          `json:"interests"`
	MatchScore       int               `json:"match_score"`
	MatchedQualities []scoring.Quality `json:"matched_qualities"`
}

// Candidates returns up to the configured pool size of eligible users,
// scored against the requester and sorted by score descending. Ties keep
// the store's random order, so repeated calls re-sample the remaining pool.
//
// A requester without a profile row gets the unfiltered pool: a missing
// profile means "no seeking preference", not an error.
func (s *Service) Candidates(ctx context.Context, requesterID uint64) ([]CandidateView, error) {
	s.appCtx.Logger.Debug("Candidates called", "requester", requesterID)

	requester := scoring.Input{}
	seeking := ""

	profile, err := s.profileRepo.GetProfile(ctx, requesterID)
	switch {
	case err == nil:
		seeking = profile.Seeking
		requester.Traits = profile.PersonalityTraits
		requester.RelationshipGoal = profile.RelationshipGoal
		requester.Drinking = profile.LifestyleDrinking
		requester.Smoking = profile.LifestyleSmoking
		requester.Exercise = profile.LifestyleExercise
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.appCtx.Logger.Debug("requester has no profile, skipping preference filter", "requester", requesterID)
	default:
		s.appCtx.Logger.Error("failed to load requester profile", "requester", requesterID, "err", err)
		return nil, svcErr.Map(err)
	}

	requester.Interests, err = s.profileRepo.InterestNames(ctx, requesterID)
	if err != nil {
		s.appCtx.Logger.Error("failed to load requester interests", "requester", requesterID, "err", err)
		return nil, svcErr.Map(err)
	}

	candidates, err := s.profileRepo.Candidates(ctx, requesterID, seeking, s.poolSize)
	if err != nil {
		s.appCtx.Logger.Error("candidate query failed", "requester", requesterID, "err", err)
		return nil, svcErr.Map(err)
	}

	ids := make([]uint64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.UserID)
	}
	interestsByUser, err := s.profileRepo.InterestNamesByUser(ctx, ids)
	if err != nil {
		s.appCtx.Logger.Error("candidate interest query failed", "requester", requesterID, "err", err)
		return nil, svcErr.Map(err)
	}

	now := time.Now().UTC()
	views := make([]CandidateView, 0, len(candidates))
	for _, c := range candidates {
		candidateInput := scoring.Input{
			Interests:        interestsByUser[c.UserID],
			Traits:           c.PersonalityTraits,
			RelationshipGoal: c.RelationshipGoal,
			Drinking:         c.LifestyleDrinking,
			Smoking:          c.LifestyleSmoking,
			Exercise:         c.LifestyleExercise,
		}
		score, qualities := scoring.Score(requester, candidateInput)

		views = append(views, CandidateView{
			UserID:           c.UserID,
			FirstName:        c.FirstName,
			CollegeName:      c.CollegeName,
			Bio:              c.Bio,
			Pictures:         pictures(c),
			Gender:           c.Gender,
			Age:              c.Age(now),
			HeightCm:         c.HeightCm,
			Occupation:       c.Occupation,
			RelationshipGoal: c.RelationshipGoal,
			LookingFor:       c.LookingFor,
			Interests:        interestsByUser[c.UserID],
			MatchScore:       score,
			MatchedQualities: qualities,
		})
	}

	// Stable: equal scores keep the random retrieval order.
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].MatchScore > views[j].MatchScore
	})

	s.appCtx.Logger.Debug("Candidates result", "requester", requesterID, "count", len(views))
	return views, nil
}

func pictures(c repository.Candidate) []string {
	pics := make([]string, 0, 3)
	for _, url := range []string{c.PictureURL, c.Picture2URL, c.Picture3URL} {
		if url != "" {
			pics = append(pics, url)
		}
	}
	return pics
}
