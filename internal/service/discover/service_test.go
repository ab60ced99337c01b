package discover_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusmatch/campusmatch/internal/app"
	"github.com/campusmatch/campusmatch/internal/db"
	"github.com/campusmatch/campusmatch/internal/scoring"
	"github.com/campusmatch/campusmatch/internal/service/discover"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func newService(t *testing.T, gdb *gorm.DB, poolSize int) *discover.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return discover.NewService(app.New(gdb, nil, logger), poolSize)
}

type seedUser struct {
	name     string
	gender   string
	seeking  string
	bio      string
	picture  string
	goal     string
	traits   []string
	interest []string
}

func createUser(t *testing.T, gdb *gorm.DB, collegeID uint64, u seedUser) uint64 {
	t.Helper()

	user := db.User{
		Email:        u.name + "@test.com",
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

	require.NoError(t, gdb.Create(&db.Profile{
		UserID:            user.ID,
		Bio:               u.bio,
		PictureURL:        u.picture,
		Gender:            u.gender,
		Seeking:           u.seeking,
		DateOfBirth:       time.Date(2003, 5, 15, 0, 0, 0, 0, time.UTC),
		RelationshipGoal:  u.goal,
		PersonalityTraits: u.traits,
	}).Error)

	return user.ID
}

func complete(name, gender, seeking string) seedUser {
	return seedUser{
		name:    name,
		gender:  gender,
		seeking: seeking,
		bio:     "hello",
		picture: "https://example.com/p.jpg",
	}
}

func TestCandidates_RankedByScore(t *testing.T) {
	ctx := context.Background()
	gdb := setupDB(t)
	svc := newService(t, gdb, 20)

	college := db.College{Name: "Miranda House"}
	require.NoError(t, gdb.Create(&college).Error)

	req := complete("Req", "Male", "Female")
	req.interest = []string{"Music", "Hiking", "Chess"}
	req.goal = "serious"
	requester := createUser(t, gdb, college.ID, req)

	// two shared interests: (2/3)*40 → 27
	strong := complete("Asha", "Female", "Male")
	strong.interest = []string{"Music", "Hiking"}
	strongID := createUser(t, gdb, college.ID, strong)

	// same goal only: 15
	weak := complete("Bela", "Female", "Male")
	weak.goal = "serious"
	weakID := createUser(t, gdb, college.ID, weak)

	// no overlap at all: 0
	none := complete("Cara", "Female", "Male")
	noneID := createUser(t, gdb, college.ID, none)

	views, err := svc.Candidates(ctx, requester)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, strongID, views[0].UserID)
	assert.Equal(t, 27, views[0].MatchScore)
	require.Len(t, views[0].MatchedQualities, 1)
	assert.Equal(t, scoring.QualityInterests, views[0].MatchedQualities[0].Type)

	assert.Equal(t, weakID, views[1].UserID)
	assert.Equal(t, 15, views[1].MatchScore)

	assert.Equal(t, noneID, views[2].UserID)
	assert.Equal(t, 0, views[2].MatchScore)

	for _, v := range views {
		assert.NotEqual(t, requester, v.UserID)
		assert.GreaterOrEqual(t, v.MatchScore, 0)
		assert.LessOrEqual(t, v.MatchScore, 100)
		assert.Greater(t, v.Age, 18) // all born 2003-05-15
		assert.Equal(t, "Miranda House", v.CollegeName)
		assert.NotEmpty(t, v.Pictures)
	}
}

func TestCandidates_ExcludesSwipedUsers(t *testing.T) {
	ctx := context.Background()
	gdb := setupDB(t)
	svc := newService(t, gdb, 20)

	college := db.College{Name: "Hindu College"}
	require.NoError(t, gdb.Create(&college).Error)

	requester := createUser(t, gdb, college.ID, complete("Req", "Male", "Female"))
	kept := createUser(t, gdb, college.ID, complete("Asha", "Female", "Male"))
	swiped := createUser(t, gdb, college.ID, complete("Bela", "Female", "Male"))

	require.NoError(t, gdb.Create(&db.Swipe{ActorID: requester, TargetID: swiped, Action: db.SwipeLike}).Error)

	views, err := svc.Candidates(ctx, requester)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, kept, views[0].UserID)
}

func TestCandidates_NoProfileMeansNoFilter(t *testing.T) {
	ctx := context.Background()
	gdb := setupDB(t)
	svc := newService(t, gdb, 20)

	college := db.College{Name: "Ramjas College"}
	require.NoError(t, gdb.Create(&college).Error)

	// requester exists but never filled a profile
	requester := db.User{Email: "req@test.com", PasswordHash: "x", FirstName: "Req", CollegeID: college.ID}
	require.NoError(t, gdb.Create(&requester).Error)

	createUser(t, gdb, college.ID, complete("Asha", "Female", "Male"))
	createUser(t, gdb, college.ID, complete("Bala", "Male", "Female"))

	views, err := svc.Candidates(ctx, requester.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2) // both genders: no seeking preference applied
}

func TestCandidates_PoolSizeBounds(t *testing.T) {
	ctx := context.Background()
	gdb := setupDB(t)
	svc := newService(t, gdb, 2)

	college := db.College{Name: "Gargi College"}
	require.NoError(t, gdb.Create(&college).Error)

	requester := createUser(t, gdb, college.ID, complete("Req", "Male", ""))
	for i := 0; i < 5; i++ {
		createUser(t, gdb, college.ID, complete(fmt.Sprintf("User%d", i), "Female", "Male"))
	}

	views, err := svc.Candidates(ctx, requester)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
