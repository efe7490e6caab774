package courses

import (
	"log"

	"github.com/eduplus/eduplus-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "app_lms"); err != nil {
		log.Fatal("Failed to ensure schema app_lms: ", err)
	}

	if err := db.DB.AutoMigrate(&Course{}, &Enrollment{}, &Assignment{}, &Submission{}); err != nil {
		log.Fatal("Failed to auto-migrate tables: ", err)
	}
}
