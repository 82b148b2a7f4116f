package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/config"
	"github.com/studahub/backend/internal/model"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Seeds a demo admin plus a small published catalog. Safe to re-run: every
// row is inserted with FirstOrCreate on its natural key.
func main() {
	_ = godotenv.Load()
	cfg := must(config.Load())
	db := must(gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{}))
	if err := db.AutoMigrate(model.All()...); err != nil {
		panic(err)
	}

	hash := must(bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost))
	admin := model.User{
		ID:       "seed-admin",
		Name:     "Admin",
		Email:    "admin@studahub.local",
		Password: string(hash),
		Role:     model.RoleAdmin,
	}
	_ = db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error

	papers := []model.Paper{
		{ID: "seed-paper-1", Title: "Research Methods Primer", Slug: "research-methods-primer", Subject: "methodology", Pages: 24, PriceCents: 0, Published: true},
		{ID: "seed-paper-2", Title: "Statistical Analysis in Education", Slug: "statistical-analysis-in-education", Subject: "statistics", Pages: 38, PriceCents: 4990, Published: true},
	}
	for i := range papers {
		_ = db.Where("slug = ?", papers[i].Slug).FirstOrCreate(&papers[i]).Error
	}

	courses := []model.Course{
		{ID: "seed-course-1", Title: "Academic Writing Essentials", Slug: "academic-writing-essentials", Hours: 12, PriceCents: 14990, Published: true},
		{ID: "seed-course-2", Title: "Intro to Citation Styles", Slug: "intro-to-citation-styles", Hours: 4, PriceCents: 0, Published: true},
	}
	for i := range courses {
		_ = db.Where("slug = ?", courses[i].Slug).FirstOrCreate(&courses[i]).Error
	}

	ebooks := []model.Ebook{
		{ID: "seed-ebook-1", Title: "The Thesis Survival Guide", Slug: "the-thesis-survival-guide", Author: "StudaHub", PriceCents: 2990, Published: true},
	}
	for i := range ebooks {
		_ = db.Where("slug = ?", ebooks[i].Slug).FirstOrCreate(&ebooks[i]).Error
	}

	fmt.Println("seeded: 1 admin, 2 papers, 2 courses, 1 ebook")
}
