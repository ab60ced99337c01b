package repository_test

import (
	"testing"
	"time"

	"github.com/campusmatch/campusmatch/internal/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// One connection only: pooled connections each get their own :memory:
	// database, and it also serializes concurrent writers like a real
	// store's lock manager would.
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// testUser describes one seeded user; zero-value fields stay empty so
// incomplete profiles can be constructed deliberately.
type testUser struct {
	email    string
	name     string
	gender   string
	seeking  string
	bio      string
	picture  string
	goal     string
	drinking string
	smoking  string
	exercise string
	traits   []string
	interest []string
	dob      time.Time
}

func seedCollege(t *testing.T, gdb *gorm.DB, name string) uint64 {
	t.Helper()
	college := db.College{Name: name}
	require.NoError(t, gdb.Create(&college).Error)
	return college.ID
}

// createUser inserts a user plus profile (and interest joins) and returns
// the user id.
func createUser(t *testing.T, gdb *gorm.DB, collegeID uint64, u testUser) uint64 {
	t.Helper()

	user := db.User{
		Email:        u.email,
		PasswordHash: "x",
		FirstName:    u.name,
		CollegeID:    collegeID,
	}
	for _, name := range u.interest {
		var interest db.Interest
		require.NoError(t, gdb.Where(db.Interest{Name: name}).FirstOrCreate(&interest).Error)
		user.Interests = append(user.Interests, interest)
	}
	require.NoError(t, gdb.Create(&user).Error)

	dob := u.dob
	if dob.IsZero() {
		dob = time.Date(2003, 5, 15, 0, 0, 0, 0, time.UTC)
	}
	profile := db.Profile{
		UserID:            user.ID,
		Bio:               u.bio,
		PictureURL:        u.picture,
		Gender:            u.gender,
		Seeking:           u.seeking,
		DateOfBirth:       dob,
		RelationshipGoal:  u.goal,
		LifestyleDrinking: u.drinking,
		LifestyleSmoking:  u.smoking,
		LifestyleExercise: u.exercise,
		PersonalityTraits: u.traits,
	}
	require.NoError(t, gdb.Create(&profile).Error)

	return user.ID
}

// completeUser is a shorthand for a swipe-eligible profile.
func completeUser(email, name, gender, seeking string) testUser {
	return testUser{
		email:   email,
		name:    name,
		gender:  gender,
		seeking: seeking,
		bio:     "hello",
		picture: "https://example.com/pic.jpg",
	}
}
