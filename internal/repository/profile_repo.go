package repository

import (
	"context"
	"strings"
	"time"

	"github.com/campusmatch/campusmatch/internal/db"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileRepository provides read access to users, profiles, interests and
// the candidate pool used by discovery.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Candidate is one row of the discovery pool: user identity plus the full
// profile view needed for scoring and presentation.
type Candidate struct {
	UserID            uint64
	FirstName         string
	CollegeName       string
	Bio               string
	PictureURL        string
	Picture2URL       string
	Picture3URL       string
	Gender            string
	Seeking           string
	RelationshipGoal  string
	HeightCm          uint16
	Occupation        string
	LifestyleDrinking string
	LifestyleSmoking  string
	LifestyleExercise string
	PersonalityTraits datatypes.JSONSlice[string]
	LookingFor        string
	DateOfBirth       time.Time
}

// GetProfile returns the profile row for a user.
// Returns gorm.ErrRecordNotFound when the user has no profile yet.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUser returns the user row with its college preloaded.
func (r *ProfileRepository) GetUser(ctx context.Context, userID uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).Preload("College").First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// InterestNames returns the interest tags of one user, ordered by name.
func (r *ProfileRepository) InterestNames(ctx context.Context, userID uint64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("interests i").
		Joins("JOIN user_interests ui ON ui.interest_id = i.id").
		Where("ui.user_id = ?", userID).
		Order("i.name").
		Pluck("i.name", &names).Error
	return names, err
}

// InterestNamesByUser returns the interest tags for a set of users in one
// query, keyed by user id. Avoids the per-candidate N+1 during discovery.
func (r *ProfileRepository) InterestNamesByUser(ctx context.Context, userIDs []uint64) (map[uint64][]string, error) {
	result := make(map[uint64][]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		UserID uint64
		Name   string
	}
	err := r.db.WithContext(ctx).
		Table("user_interests ui").
		Select("ui.user_id, i.name").
		Joins("JOIN interests i ON i.id = ui.interest_id").
		Where("ui.user_id IN ?", userIDs).
		Order("ui.user_id, i.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.Name)
	}
	return result, nil
}

// AllInterests returns the full interest catalog ordered by name.
func (r *ProfileRepository) AllInterests(ctx context.Context) ([]db.Interest, error) {
	var interests []db.Interest
	err := r.db.WithContext(ctx).Order("name").Find(&interests).Error
	return interests, err
}

// Candidates returns up to limit users eligible to be shown to the requester.
//
// Behavior:
//   - Excludes the requester themselves.
//   - Excludes anyone the requester has already swiped on (any action).
//   - Excludes incomplete profiles (bio, gender or first picture missing).
//   - When seeking names a gender (anything but "" / "everyone"), only
//     case-insensitively matching genders are returned.
//   - Rows come back in random store order; ranking happens in the service.
func (r *ProfileRepository) Candidates(ctx context.Context, requesterID uint64, seeking string, limit int) ([]Candidate, error) {
	var candidates []Candidate

	swiped := r.db.
		Table("swipes").
		Select("target_id").
		Where("actor_id = ?", requesterID)

	query := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id AS user_id, u.first_name, c.name AS college_name,
			p.bio, p.picture_url, p.picture2_url, p.picture3_url,
			p.gender, p.seeking, p.relationship_goal, p.height_cm, p.occupation,
			p.lifestyle_drinking, p.lifestyle_smoking, p.lifestyle_exercise,
			p.personality_traits, p.looking_for, p.date_of_birth`).
		Joins("JOIN colleges c ON c.id = u.college_id").
		Joins("JOIN profiles p ON p.user_id = u.id").
		Where("u.id <> ?", requesterID).
		Where("u.id NOT IN (?)", swiped).
		Where("p.bio <> '' AND p.gender <> '' AND p.picture_url <> ''")

	if seeking != "" && !strings.EqualFold(seeking, "everyone") {
		query = query.Where("LOWER(p.gender) = LOWER(?)", seeking)
	}

	err := query.
		Order(r.randomOrder()).
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// Age computes full years between dob and now.
func (c Candidate) Age(now time.Time) int {
	years := now.Year() - c.DateOfBirth.Year()
	anniversary := c.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

func (r *ProfileRepository) randomOrder() string {
	if r.db.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}
