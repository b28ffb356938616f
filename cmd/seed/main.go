package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"coursecatalog/internal/config"
	"coursecatalog/internal/db"
	"coursecatalog/internal/model"
	"coursecatalog/internal/repository"
)

const seedPassword = "password123"

type seedCourse struct {
	Title        string
	Description  string
	Category     string
	Level        model.CourseLevel
	Duration     float64
	Credits      int
	Rating       float64
	DurationText string
	Published    bool
}

var seedUsers = []model.User{
	{Username: "alice", Email: "alice@example.com", FullName: "Alice Johnson", IsActive: true},
	{Username: "bob", Email: "bob@example.com", FullName: "Bob Martinez", IsActive: true},
}

var seedCourses = map[string][]seedCourse{
	"alice": {
		{
			Title:        "Python for Beginners",
			Description:  "A gentle introduction to Python covering syntax, data types and control flow.",
			Category:     "Programming",
			Level:        model.LevelBeginner,
			Duration:     12.5,
			Credits:      40,
			Rating:       4.7,
			DurationText: "6 Weeks",
			Published:    true,
		},
		{
			Title:        "Advanced Python Patterns",
			Description:  "Generators, context managers, metaclasses and async programming in Python.",
			Category:     "Programming",
			Level:        model.LevelAdvanced,
			Duration:     18,
			Credits:      60,
			Rating:       4.9,
			DurationText: "8 Weeks",
			Published:    true,
		},
		{
			Title:        "Data Analysis Fundamentals",
			Description:  "Explore data cleaning, aggregation and visualization with pandas.",
			Category:     "Data Science",
			Level:        model.LevelIntermediate,
			Duration:     15,
			Credits:      50,
			Rating:       4.4,
			DurationText: "7 Weeks",
			Published:    false,
		},
	},
	"bob": {
		{
			Title:        "Web Development Bootcamp",
			Description:  "HTML, CSS and JavaScript from scratch to a deployed site.",
			Category:     "Web Development",
			Level:        model.LevelBeginner,
			Duration:     30,
			Credits:      80,
			Rating:       4.6,
			DurationText: "12 Weeks",
			Published:    true,
		},
		{
			Title:        "SQL and Database Design",
			Description:  "Relational modeling, joins, indexes and query tuning.",
			Category:     "Databases",
			Level:        model.LevelIntermediate,
			Duration:     10,
			Credits:      35,
			Rating:       4.2,
			DurationText: "5 Weeks",
			Published:    true,
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Course{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	created := 0
	for i := range seedUsers {
		user := seedUsers[i]
		user.PasswordHash = string(hash)

		existing, err := userRepo.FindByUsername(ctx, user.Username)
		if err == nil {
			log.Printf("User %q already present, skipping", user.Username)
			seedUsers[i].ID = existing.ID
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to look up user %q: %v", user.Username, err)
		}

		if err := userRepo.Create(ctx, &user); err != nil {
			log.Fatalf("Failed to create user %q: %v", user.Username, err)
		}
		seedUsers[i].ID = user.ID
		created++
	}
	log.Printf("Seeded %d users (password: %s)", created, seedPassword)

	coursesCreated := 0
	for i := range seedUsers {
		creatorID := seedUsers[i].ID
		for _, sc := range seedCourses[seedUsers[i].Username] {
			id := creatorID
			course := model.Course{
				Title:        sc.Title,
				Description:  sc.Description,
				Category:     sc.Category,
				Level:        sc.Level,
				Duration:     sc.Duration,
				Credits:      sc.Credits,
				Rating:       sc.Rating,
				DurationText: sc.DurationText,
				ImageURL:     model.DefaultImageURL,
				Published:    sc.Published,
				CreatedBy:    &id,
			}
			if err := courseRepo.Create(ctx, &course); err != nil {
				log.Printf("Failed to create course %q: %v", sc.Title, err)
				continue
			}
			coursesCreated++
		}
	}
	log.Printf("Seeded %d courses", coursesCreated)

	log.Println("Seed completed")
}
