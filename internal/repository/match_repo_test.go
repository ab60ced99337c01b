package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/campusmatch/campusmatch/internal/db"
	"github.com/campusmatch/campusmatch/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMatch_CanonicalAndIdempotent(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	// both argument orders map onto the same canonical row
	require.NoError(t, repo.EnsureMatch(ctx, 7, 3))
	require.NoError(t, repo.EnsureMatch(ctx, 3, 7))
	require.NoError(t, repo.EnsureMatch(ctx, 7, 3))

	var matches []db.Match
	require.NoError(t, gdb.Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(3), matches[0].UserLowID)
	assert.Equal(t, uint64(7), matches[0].UserHighID)
}

func TestEnsureMatch_ConcurrentInsertsKeepOneRow(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	// both sides' like-processing race to materialize the same pair
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := uint64(1), uint64(2)
			if i == 1 {
				a, b = b, a
			}
			errs[i] = repo.EnsureMatch(ctx, a, b)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var count int64
	require.NoError(t, gdb.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetMatch_NotFound(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	_, err := repo.GetMatch(ctx, 999)
	assert.Error(t, err)
}

func TestMatchHelpers(t *testing.T) {
	m := db.Match{UserLowID: 3, UserHighID: 7}

	assert.True(t, m.Contains(3))
	assert.True(t, m.Contains(7))
	assert.False(t, m.Contains(5))
	assert.Equal(t, uint64(7), m.Peer(3))
	assert.Equal(t, uint64(3), m.Peer(7))
}

func TestListForUser_PeerSummariesAndPagination(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)
	college := seedCollege(t, gdb, "St. Stephen's College")

	me := createUser(t, gdb, college, completeUser("me@test.com", "Me", "Male", "Female"))
	peer1 := createUser(t, gdb, college, completeUser("p1@test.com", "Priya", "Female", "Male"))
	peer2 := createUser(t, gdb, college, completeUser("p2@test.com", "Kiara", "Female", "Male"))
	stranger := createUser(t, gdb, college, completeUser("s@test.com", "Sam", "Male", "Female"))

	require.NoError(t, repo.EnsureMatch(ctx, me, peer1))
	require.NoError(t, repo.EnsureMatch(ctx, me, peer2))
	require.NoError(t, repo.EnsureMatch(ctx, peer1, stranger))

	summaries, next, err := repo.ListForUser(ctx, me, nil, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Nil(t, next)
	for _, s := range summaries {
		assert.NotEqual(t, me, s.PeerID)
		assert.NotEqual(t, stranger, s.PeerID)
		assert.NotEmpty(t, s.FirstName)
		assert.Equal(t, "St. Stephen's College", s.CollegeName)
	}

	// page size 1 produces a cursor to the second page
	page1, next, err := repo.ListForUser(ctx, me, nil, 1)
	require.NoError(t, err)
	require.Len(t, page1, 1)
	require.NotNil(t, next)

	page2, next2, err := repo.ListForUser(ctx, me, next, 1)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Nil(t, next2)
	assert.NotEqual(t, page1[0].MatchID, page2[0].MatchID)
}
