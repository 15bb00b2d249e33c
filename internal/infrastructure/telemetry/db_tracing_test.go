package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedReview struct {
	ID     uint `gorm:"primaryKey"`
	Name   string
	Rating int
}

func openTracingDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&tracedReview{}))
	return db
}

// steppingClock advances by step on every call
func steppingClock(step time.Duration) func() time.Time {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func TestNewDBTracingPlugin_Defaults(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{}, zap.NewNop())
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.Equal(t, "storefront", p.config.DBName)
}

func TestDBTracingPlugin_DisabledIsNoop(t *testing.T) {
	db := openTracingDB(t)
	core, logs := observer.New(zapcore.DebugLevel)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.New(core))
	require.NoError(t, p.Register(db))

	require.NoError(t, db.Create(&tracedReview{Name: "Asha", Rating: 5}).Error)
	assert.Zero(t, logs.Len())
}

func TestDBTracingPlugin_LogsSlowStatements(t *testing.T) {
	db := openTracingDB(t)
	core, logs := observer.New(zapcore.InfoLevel)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: 100 * time.Millisecond}, zap.New(core))
	p.now = steppingClock(time.Second)
	require.NoError(t, p.Register(db))

	require.NoError(t, db.Create(&tracedReview{Name: "Asha", Rating: 5}).Error)

	slow := logs.FilterMessage("Slow database statement").All()
	require.NotEmpty(t, slow)
	assert.Equal(t, "traced_reviews", slow[0].ContextMap()["table"])
	assert.Equal(t, 1, logs.FilterMessage("Database tracing enabled").Len())
}

func TestDBTracingPlugin_FastStatementsNotLogged(t *testing.T) {
	db := openTracingDB(t)
	core, logs := observer.New(zapcore.InfoLevel)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.New(core))
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }
	require.NoError(t, p.Register(db))

	require.NoError(t, db.Create(&tracedReview{Name: "Asha", Rating: 5}).Error)
	var found []tracedReview
	require.NoError(t, db.Find(&found).Error)

	assert.Len(t, found, 1)
	assert.Zero(t, logs.FilterMessage("Slow database statement").Len())
}
