package worker

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskhive/config"
	"taskhive/models"
)

func newTestWorker(t *testing.T, retentionDays int) (*TrashWorker, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewTrashWorker(db, log.WithField("component", "trash-worker"), retentionDays), db
}

func trashedTeam(t *testing.T, db *gorm.DB, name string, deletedAt time.Time) {
	t.Helper()
	team := models.Team{
		Name:      name,
		IsDeleted: true,
		DeletedAt: &deletedAt,
	}
	require.NoError(t, db.Create(&team).Error)
}

func TestPurgeRespectsRetentionCutoff(t *testing.T) {
	tw, db := newTestWorker(t, 30)

	trashedTeam(t, db, "expired", time.Now().AddDate(0, 0, -31))
	trashedTeam(t, db, "recent", time.Now().AddDate(0, 0, -1))

	active := models.Team{Name: "active"}
	require.NoError(t, db.Create(&active).Error)

	tw.Purge()

	var names []string
	require.NoError(t, db.Model(&models.Team{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"active", "recent"}, names)
}

func TestPurgeClearsMembershipRows(t *testing.T) {
	tw, db := newTestWorker(t, 30)

	member := models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&member).Error)

	deletedAt := time.Now().AddDate(0, 0, -31)
	team := models.Team{
		Name:      "expired",
		IsDeleted: true,
		DeletedAt: &deletedAt,
		Members:   []models.User{member},
	}
	require.NoError(t, db.Create(&team).Error)

	tw.Purge()

	var teams int64
	db.Model(&models.Team{}).Count(&teams)
	assert.EqualValues(t, 0, teams)

	// The join rows go with the team, the user record stays
	var memberships int64
	db.Table("team_members").Count(&memberships)
	assert.EqualValues(t, 0, memberships)

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 1, users)
}

func TestPurgeLeavesUntrashedTeamsAlone(t *testing.T) {
	tw, db := newTestWorker(t, 0)

	// Zero retention purges anything trashed, but never an active team
	old := models.Team{Name: "old but active", CreatedAt: time.Now().AddDate(-1, 0, 0)}
	require.NoError(t, db.Create(&old).Error)
	trashedTeam(t, db, "trashed", time.Now().Add(-time.Minute))

	tw.Purge()

	var count int64
	db.Model(&models.Team{}).Count(&count)
	assert.EqualValues(t, 1, count)

	var remaining models.Team
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, "old but active", remaining.Name)
}
