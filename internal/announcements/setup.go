package announcements

import (
	"log"

	"github.com/eduplus/eduplus-backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&Announcement{}); err != nil {
		log.Fatal("Failed to auto-migrate tables: ", err)
	}
}
