package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("skipping dao tests, docker unavailable: %v", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=trial_master_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=trial_master_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 60 * time.Second
	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}
		testDB = db

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"audit_log", "participants", "trial_day_stations", "trial_days", "stations", "user_roles", "users"} {
		require.NoError(t, testDB.Exec("DELETE FROM "+table).Error)
	}
}

func seedTrialDay(t *testing.T) TrialDay {
	t.Helper()
	daysDAO := NewTrialDayDAO(testDB)
	day, err := daysDAO.Insert(context.Background(), TrialDay{
		Date:           time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		AvailableSlots: 10,
	}, nil)
	require.NoError(t, err)
	return day
}

func TestParticipantDAO(t *testing.T) {
	ctx := context.Background()
	d := NewParticipantDAO(testDB)

	t.Run("insert and find", func(t *testing.T) {
		cleanTables(t)
		day := seedTrialDay(t)

		created, err := d.Insert(ctx, Participant{
			TrialDayID: day.ID,
			FullName:   "Dana Levi",
			Phone:      "0521234567",
		})
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		found, err := d.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dana Levi", found.FullName)
		assert.False(t, found.Arrived)
	})

	t.Run("find by unknown id", func(t *testing.T) {
		cleanTables(t)

		_, err := d.FindByID(ctx, 424242)
		assert.ErrorIs(t, err, ErrParticipantNotFound)
	})

	t.Run("qr code lookup", func(t *testing.T) {
		cleanTables(t)
		day := seedTrialDay(t)

		qrCode := "tok-abc"
		created, err := d.Insert(ctx, Participant{
			TrialDayID: day.ID,
			FullName:   "Dana Levi",
			Phone:      "0521234567",
			Arrived:    true,
			QRCode:     &qrCode,
		})
		require.NoError(t, err)

		found, err := d.FindByQRCode(ctx, "tok-abc")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		_, err = d.FindByQRCode(ctx, "tok-missing")
		assert.ErrorIs(t, err, ErrQRCodeNotFound)
	})

	t.Run("qr code uniqueness", func(t *testing.T) {
		cleanTables(t)
		day := seedTrialDay(t)

		qrCode := "tok-dup"
		_, err := d.Insert(ctx, Participant{
			TrialDayID: day.ID, FullName: "Dana Levi", Phone: "0521234567", QRCode: &qrCode,
		})
		require.NoError(t, err)

		second, err := d.Insert(ctx, Participant{
			TrialDayID: day.ID, FullName: "Noa Cohen", Phone: "0527654321",
		})
		require.NoError(t, err)

		second.QRCode = &qrCode
		_, err = d.Update(ctx, second)
		assert.ErrorIs(t, err, ErrQRCodeTaken)
	})

	t.Run("bulk delete reports affected rows", func(t *testing.T) {
		cleanTables(t)
		day := seedTrialDay(t)

		var ids []uint
		for _, name := range []string{"Dana Levi", "Noa Cohen"} {
			created, err := d.Insert(ctx, Participant{
				TrialDayID: day.ID, FullName: name, Phone: "0521234567",
			})
			require.NoError(t, err)
			ids = append(ids, created.ID)
		}

		deleted, err := d.DeleteByIDs(ctx, append(ids, 999999))
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)
	})

	t.Run("lifecycle stats", func(t *testing.T) {
		cleanTables(t)
		day := seedTrialDay(t)

		now := time.Now()
		qrCode := "tok-stats"
		_, err := d.Insert(ctx, Participant{
			TrialDayID: day.ID, FullName: "Dana Levi", Phone: "0521234567",
			Arrived: true, ArrivedAt: &now, QRCode: &qrCode,
			FormCompleted: true, FormCompletedAt: &now,
		})
		require.NoError(t, err)
		_, err = d.Insert(ctx, Participant{
			TrialDayID: day.ID, FullName: "Noa Cohen", Phone: "0527654321",
		})
		require.NoError(t, err)

		registered, arrived, formCompleted, trialCompleted, err := d.CountStatsByTrialDayID(ctx, day.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), registered)
		assert.Equal(t, int64(1), arrived)
		assert.Equal(t, int64(1), formCompleted)
		assert.Equal(t, int64(0), trialCompleted)
	})
}

func TestTrialDayDAODeleteCascades(t *testing.T) {
	ctx := context.Background()
	cleanTables(t)

	daysDAO := NewTrialDayDAO(testDB)
	participantsDAO := NewParticipantDAO(testDB)

	day := seedTrialDay(t)
	created, err := participantsDAO.Insert(ctx, Participant{
		TrialDayID: day.ID, FullName: "Dana Levi", Phone: "0521234567",
	})
	require.NoError(t, err)

	require.NoError(t, daysDAO.Delete(ctx, day.ID))

	_, err = participantsDAO.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestAuditLogDAOAppendOnly(t *testing.T) {
	ctx := context.Background()
	cleanTables(t)

	d := NewAuditLogDAO(testDB)

	first, err := d.Insert(ctx, AuditLog{
		UserID:   1,
		Action:   "created",
		Table:    "participants",
		RecordID: "1",
		Changes:  []byte(`{"full_name":"Dana Levi"}`),
	})
	require.NoError(t, err)
	second, err := d.Insert(ctx, AuditLog{
		UserID:   1,
		Action:   "marked_arrived",
		Table:    "participants",
		RecordID: "1",
		Changes:  []byte(`{"arrived":true}`),
	})
	require.NoError(t, err)

	entries, err := d.FindAll(ctx, 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, "participants", entries[0].Table)

	newer, err := d.FindNewerThan(ctx, first.ID, 50)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, second.ID, newer[0].ID)
}
