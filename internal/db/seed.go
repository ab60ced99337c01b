package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedColleges = []string{
	"St. Stephen's College",
	"Miranda House",
	"Hindu College",
	"Hansraj College",
	"Lady Shri Ram College",
	"Ramjas College",
}

var seedInterests = []string{
	"Photography", "Hiking", "Music", "Painting", "Dancing", "Debating",
	"Cooking", "Travel", "Coding", "Chess", "Cricket", "Reading",
	"Theatre", "Fitness", "Cinema",
}

var seedGoals = []string{"casual", "serious", "friendship"}
var seedDrinking = []string{"Never", "Socially", "Often"}
var seedSmoking = []string{"Never", "Sometimes"}
var seedExercise = []string{"Daily", "Weekly", "Rarely"}
var seedTraits = []string{
	"Adventurous", "Introvert", "Extrovert", "Creative", "Ambitious",
	"Easygoing", "Romantic", "Funny",
}

// SeedTestData resets the database and populates it with demo colleges,
// interests, users with complete profiles, and a spread of swipes
// (roughly 70% likes, every third like reciprocated so matches exist).
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(database *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "swipes", "user_interests", "profiles", "users", "interests", "colleges"} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch database.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"messages", "matches", "swipes", "users", "interests", "colleges"} {
			database.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		database.Exec("DELETE FROM sqlite_sequence")
	}

	log.Println("Cleared existing data")

	// --- Colleges + interest catalog ---
	colleges := make([]College, 0, len(seedColleges))
	for _, name := range seedColleges {
		colleges = append(colleges, College{Name: name})
	}
	if err := database.Create(&colleges).Error; err != nil {
		return fmt.Errorf("failed to seed colleges: %w", err)
	}

	interests := make([]Interest, 0, len(seedInterests))
	for _, name := range seedInterests {
		interests = append(interests, Interest{Name: name})
	}
	if err := database.Create(&interests).Error; err != nil {
		return fmt.Errorf("failed to seed interests: %w", err)
	}

	// --- Users with complete profiles (10 male, 10 female) ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		gender := "Male"
		seeking := "Female"
		if i > 10 {
			gender = "Female"
			seeking = "Male"
		}

		user := User{
			Email:        fmt.Sprintf("student%d@college.du.ac.in", i),
			PasswordHash: string(hash),
			FirstName:    fmt.Sprintf("Student%d", i),
			CollegeID:    colleges[i%len(colleges)].ID,
		}
		// 2-4 interests per user
		for _, idx := range r.Perm(len(interests))[:2+r.Intn(3)] {
			user.Interests = append(user.Interests, interests[idx])
		}
		if err := database.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		traits := []string{}
		for _, idx := range r.Perm(len(seedTraits))[:2] {
			traits = append(traits, seedTraits[idx])
		}

		profile := Profile{
			UserID:            user.ID,
			Bio:               fmt.Sprintf("Hi, I'm Student%d. Ask me about %s.", i, seedInterests[i%len(seedInterests)]),
			PictureURL:        fmt.Sprintf("https://i.pravatar.cc/400?img=%d", i),
			Gender:            gender,
			Seeking:           seeking,
			DateOfBirth:       time.Date(2001+r.Intn(4), time.Month(1+r.Intn(12)), 1+r.Intn(28), 0, 0, 0, 0, time.UTC),
			HeightCm:          uint16(155 + r.Intn(35)),
			Occupation:        "Student",
			RelationshipGoal:  seedGoals[r.Intn(len(seedGoals))],
			LifestyleDrinking: seedDrinking[r.Intn(len(seedDrinking))],
			LifestyleSmoking:  seedSmoking[r.Intn(len(seedSmoking))],
			LifestyleExercise: seedExercise[r.Intn(len(seedExercise))],
			PersonalityTraits: traits,
			LookingFor:        "Someone to explore campus cafes with",
		}
		if err := database.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
		users = append(users, user)
	}

	log.Printf("Seeded %d users", len(users))

	// --- Swipes: ~70% likes, every 3rd like reciprocated ---
	swipeCount, matchCount := 0, 0
	for i, actor := range users {
		for _, idx := range r.Perm(len(users))[:6] {
			target := users[idx]
			if actor.ID == target.ID {
				continue
			}

			action := SwipeLike
			if r.Intn(10) >= 7 {
				action = SwipeDislike
			}
			if err := database.Create(&Swipe{ActorID: actor.ID, TargetID: target.ID, Action: action}).Error; err != nil {
				return fmt.Errorf("failed to seed swipe: %w", err)
			}
			swipeCount++

			if action == SwipeLike && i%3 == 0 {
				if err := database.Create(&Swipe{ActorID: target.ID, TargetID: actor.ID, Action: SwipeLike}).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal swipe: %w", err)
				}
				swipeCount++

				low, high := actor.ID, target.ID
				if low > high {
					low, high = high, low
				}
				res := database.Where(Match{UserLowID: low, UserHighID: high}).
					FirstOrCreate(&Match{UserLowID: low, UserHighID: high})
				if res.Error != nil {
					return fmt.Errorf("failed to seed match: %w", res.Error)
				}
				if res.RowsAffected > 0 {
					matchCount++
				}
			}
		}
	}

	log.Printf("Seeded %d swipes, %d matches", swipeCount, matchCount)
	return nil
}
