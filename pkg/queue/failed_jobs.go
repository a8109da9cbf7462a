package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// FailedJobRecord is the dead-letter row persisted when a job exhausts
// its retries. Support inspects this table to replay missed order
// notifications.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// failedJobDB is the optional DB backend for persisting failed jobs.
// nil means in-memory only.
var failedJobDB *gorm.DB

// UseDB configures the queue to persist failed jobs to the database.
func UseDB(db *gorm.DB) {
	failedJobDB = db
	// Auto-create the table if it doesn't exist.
	db.AutoMigrate(&FailedJobRecord{})
}

// UseSQLite opens (or creates) a local sqlite dead-letter store and
// wires it via UseDB. Called once at boot.
func UseSQLite(dsn string) error {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("queue: open failed-jobs store: %w", err)
	}
	UseDB(db)
	return nil
}

// persistFailed writes a failed job record to the database (if configured)
// and also appends to the in-memory slice as a fallback.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	// Always append to in-memory slice.
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	m.mu.Unlock()

	// Persist to DB if available.
	if failedJobDB == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": "could not marshal: %v"}`, err))
	}

	record := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	if err := failedJobDB.Create(&record).Error; err != nil {
		// Non-fatal: the in-memory slice still has it.
		fmt.Printf("queue: failed to persist failed job %s: %v\n", typeName, err)
	}
}
