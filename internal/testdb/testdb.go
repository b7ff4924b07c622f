// Package testdb opens migrated and seeded in-memory databases for package tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"worldstage/database"
	"worldstage/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open returns a fresh database with the schema and the catalog in place.
// 接続は1本に固定してトランザクションを直列化する
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(false))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedCatalog(db, zap.NewNop()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func CreateGame(t testing.TB, db *gorm.DB, creator models.User, maxPlayers, turnHours int) models.Game {
	t.Helper()
	game := models.Game{
		Name:              creator.Username + "'s world",
		CreatorID:         creator.ID,
		Status:            models.GameStatusPending,
		MaxPlayers:        maxPlayers,
		TurnDurationHours: turnHours,
		GamePhase:         models.PhaseFoundation,
	}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

// AddPlayer inserts a player with the starting resources and bumps the
// game's player counter, bypassing the join checks.
func AddPlayer(t testing.TB, db *gorm.DB, user models.User, game models.Game) models.Player {
	t.Helper()
	var country models.Country
	if err := db.Order("id").First(&country).Error; err != nil {
		t.Fatalf("load country: %v", err)
	}
	player := models.Player{
		UserID:     user.ID,
		GameID:     game.ID,
		CountryID:  country.ID,
		NationName: user.Username + " Nation",
		LeaderName: user.Username,
		IsActive:   true,
	}
	if err := db.Create(&player).Error; err != nil {
		t.Fatalf("create player: %v", err)
	}
	res := models.NewPlayerResources(player.ID)
	if err := db.Create(&res).Error; err != nil {
		t.Fatalf("create resources: %v", err)
	}
	if err := db.Model(&models.Game{}).Where("id = ?", game.ID).
		Update("current_players", gorm.Expr("current_players + 1")).Error; err != nil {
		t.Fatalf("bump player count: %v", err)
	}
	return player
}

func SetBalance(t testing.TB, db *gorm.DB, playerID uint, money, materials int64, happiness int) {
	t.Helper()
	if err := db.Model(&models.PlayerResources{}).Where("player_id = ?", playerID).
		Updates(map[string]any{"money": money, "materials": materials, "happiness": happiness}).Error; err != nil {
		t.Fatalf("set balance: %v", err)
	}
}

func Resources(t testing.TB, db *gorm.DB, playerID uint) models.PlayerResources {
	t.Helper()
	var res models.PlayerResources
	if err := db.Where("player_id = ?", playerID).First(&res).Error; err != nil {
		t.Fatalf("load resources: %v", err)
	}
	return res
}

func BuildingTypeID(t testing.TB, db *gorm.DB, code string) uint {
	t.Helper()
	var bt models.BuildingType
	if err := db.Where("code = ?", code).First(&bt).Error; err != nil {
		t.Fatalf("load building type %s: %v", code, err)
	}
	return bt.ID
}

func TechnologyID(t testing.TB, db *gorm.DB, code string) uint {
	t.Helper()
	var tech models.Technology
	if err := db.Where("code = ?", code).First(&tech).Error; err != nil {
		t.Fatalf("load technology %s: %v", code, err)
	}
	return tech.ID
}
