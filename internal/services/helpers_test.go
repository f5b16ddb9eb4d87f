package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"referral-tracker/internal/auth"
	"referral-tracker/internal/config"
	"referral-tracker/internal/database"
	"referral-tracker/internal/repository"
)

type testEnv struct {
	db        *gorm.DB
	tokens    *auth.TokenService
	users     *repository.UserRepository
	ledger    *repository.ReferralRepository
	accounts  *AccountService
	referrals *ReferralService
	exports   *ExportService
	logs      *test.Hook
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one in-memory database per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open(config.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	tokens := auth.NewTokenService("test-secret", 90*24*time.Hour)
	users := repository.NewUserRepository(db)
	ledger := repository.NewReferralRepository(db)

	accounts := NewAccountService(users, ledger, tokens, 5, log)
	accounts.hashCost = bcrypt.MinCost

	return &testEnv{
		db:        db,
		tokens:    tokens,
		users:     users,
		ledger:    ledger,
		accounts:  accounts,
		referrals: NewReferralService(ledger, tokens, log),
		exports:   NewExportService(users, ledger, log),
		logs:      hook,
	}
}
