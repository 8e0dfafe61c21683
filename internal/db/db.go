package db

import (
	"log"

	"github.com/ergolab/consulta/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Admin{},
		&models.SystemSetting{},
		&models.APIUsage{},
		&models.UserCalculation{},
		&models.Product{},
		&models.Protocol{},
		&models.KnowledgeEntry{},
	)
}
