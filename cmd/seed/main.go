package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"nutrack/database"
	"nutrack/internal/engagement"
	"nutrack/internal/goals"
	"nutrack/internal/models"
	"nutrack/internal/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func init() {
	// Load .env file from project root
	if err := godotenv.Load(); err != nil {
		// Try loading from parent directory (in case running from cmd/seed/)
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found: %v", err)
		}
	}
}

var demoMeals = []struct {
	name  string
	items models.FoodItems
}{
	{"Breakfast", models.FoodItems{
		{Name: "Oatmeal with banana", Calories: 350, Protein: 12, Carbs: 62, Fat: 7, ServingSize: "1 bowl"},
		{Name: "Black coffee", Calories: 5, Protein: 0, Carbs: 1, Fat: 0, ServingSize: "1 cup"},
	}},
	{"Lunch", models.FoodItems{
		{Name: "Grilled chicken breast", Calories: 330, Protein: 42, Carbs: 0, Fat: 17, ServingSize: "200g"},
		{Name: "Brown rice", Calories: 220, Protein: 5, Carbs: 46, Fat: 2, ServingSize: "1 cup"},
		{Name: "Steamed broccoli", Calories: 55, Protein: 4, Carbs: 11, Fat: 1, ServingSize: "1 cup"},
	}},
	{"Dinner", models.FoodItems{
		{Name: "Baked salmon", Calories: 410, Protein: 40, Carbs: 0, Fat: 27, ServingSize: "180g"},
		{Name: "Roasted potatoes", Calories: 180, Protein: 4, Carbs: 37, Fat: 3, ServingSize: "150g"},
	}},
	{"Snack", models.FoodItems{
		{Name: "Greek yogurt", Calories: 130, Protein: 17, Carbs: 8, Fat: 4, ServingSize: "170g"},
	}},
}

func main() {
	userID := flag.Uint("user-id", 1, "User ID to create the demo profile for")
	days := flag.Int("days", 14, "Number of past days to backfill with meals")
	flag.Parse()

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	profileRepo := repository.NewUserProfileRepository(database.DB)
	mealRepo := repository.NewMealRepository(database.DB)

	now := time.Now()
	derived := goals.Calculate(goals.Input{
		Age:      30,
		Sex:      goals.SexMale,
		WeightKg: 80,
		HeightCm: 180,
		Activity: goals.ActivityModerate,
		Goal:     goals.GoalMaintenance,
	})

	profile := &models.UserProfile{
		UserID:              *userID,
		Name:                "Demo User",
		Age:                 30,
		Sex:                 "male",
		Weight:              80,
		Height:              180,
		ActivityLevel:       "moderate",
		GoalType:            "maintenance",
		GoalCalories:        derived.Calories,
		GoalProtein:         derived.ProteinG,
		GoalCarbs:           derived.CarbsG,
		GoalFat:             derived.FatG,
		Streak:              1,
		LastLoginCheckpoint: now.AddDate(0, 0, -*days).UnixMilli(),
		LastMealCheckpoint:  now.AddDate(0, 0, -*days).UnixMilli(),
		EarnedBadges:        models.BadgeList{},
	}
	if err := profileRepo.Create(profile); err != nil {
		log.Fatalf("Failed to create demo profile: %v", err)
	}
	log.Printf("Created demo profile for user %d (goal: %d kcal)", *userID, profile.GoalCalories)

	// Backfill meals day by day, oldest first, replaying the checkpoint so
	// the streak and badge state end up consistent with the meal history.
	mealCount := 0
	for d := *days - 1; d >= 0; d-- {
		day := now.AddDate(0, 0, -d)
		mealsToday := 2 + rand.Intn(len(demoMeals)-1)
		for i := 0; i < mealsToday; i++ {
			template := demoMeals[i%len(demoMeals)]
			at := time.Date(day.Year(), day.Month(), day.Day(), 8+i*4, 15, 0, 0, day.Location())
			meal := models.Meal{
				ID:        uuid.NewString(),
				UserID:    *userID,
				Date:      at.Format("2006-01-02"),
				Timestamp: at.UnixMilli(),
				Name:      template.name,
				Items:     template.items,
			}
			meal.ComputeTotals()
			if err := mealRepo.Create(&meal); err != nil {
				log.Fatalf("Failed to create meal: %v", err)
			}
			mealCount++
			engagement.ApplyMealCheckpoint(profile, at, mealCount)
		}
	}

	meals, err := mealRepo.FindAllByUserID(*userID)
	if err != nil {
		log.Fatalf("Failed to load meals: %v", err)
	}
	newlyEarned, _ := engagement.EvaluateAchievements(profile, meals)
	if err := profileRepo.Update(profile); err != nil {
		log.Fatalf("Failed to update profile: %v", err)
	}

	fmt.Printf("Seeded %d meals over %d days for user %d\n", mealCount, *days, *userID)
	fmt.Printf("Streak: %d, badges earned: %v\n", profile.Streak, newlyEarned)
}
