package database

import (
	"fmt"

	"worldstage/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates every table through gorm. Production deployments
// may instead run cmd/migrate and start the server with AUTO_MIGRATE=false.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("db connection is nil")
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Country{},
		&models.Game{},
		&models.Player{},
		&models.PlayerResources{},
		&models.BuildingType{},
		&models.PlayerBuilding{},
		&models.Technology{},
		&models.PlayerResearch{},
	)
}

// SeedCatalog は国・建物タイプ・技術の静的データを投入する（既存のcodeはスキップ）
func SeedCatalog(db *gorm.DB, logger *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		countries := append([]models.Country(nil), seedCountries...)
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
			Create(&countries).Error; err != nil {
			return fmt.Errorf("seed countries: %w", err)
		}

		buildingTypes := append([]models.BuildingType(nil), seedBuildingTypes...)
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
			Create(&buildingTypes).Error; err != nil {
			return fmt.Errorf("seed building types: %w", err)
		}

		// 前提技術はIDで保持するため、先に全技術を投入してからcodeをIDに解決する
		for _, seed := range seedTechnologies {
			tech := seed.tech
			if tech.Prerequisites == nil {
				tech.Prerequisites = datatypes.JSONSlice[uint]{}
			}
			if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
				Create(&tech).Error; err != nil {
				return fmt.Errorf("seed technology %s: %w", seed.tech.Code, err)
			}
		}
		for _, seed := range seedTechnologies {
			if len(seed.requires) == 0 {
				continue
			}
			var ids []uint
			if err := tx.Model(&models.Technology{}).Where("code IN ?", seed.requires).Pluck("id", &ids).Error; err != nil {
				return err
			}
			if len(ids) != len(seed.requires) {
				return fmt.Errorf("seed technology %s: unresolved prerequisites %v", seed.tech.Code, seed.requires)
			}
			if err := tx.Model(&models.Technology{}).Where("code = ?", seed.tech.Code).
				Update("prerequisites", datatypes.NewJSONSlice(ids)).Error; err != nil {
				return err
			}
		}

		logger.Info("Catalog seeded",
			zap.Int("countries", len(seedCountries)),
			zap.Int("building_types", len(seedBuildingTypes)),
			zap.Int("technologies", len(seedTechnologies)),
		)
		return nil
	})
}
