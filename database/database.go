package database

import (
	"gorm.io/gorm"
)

type Database struct {
	db          *gorm.DB
	projectRepo *ProjectRepo
	assetRepo   *AssetRepo
	contactRepo *ContactRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		projectRepo: NewProjectRepo(db),
		assetRepo:   NewAssetRepo(db),
		contactRepo: NewContactRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) AssetRepo() *AssetRepo {
	return d.assetRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

// DB returns the shared handle.
func (d Database) DB() *gorm.DB {
	return d.db
}
