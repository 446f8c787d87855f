package config

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ENVIRONMENT", "")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "3001", s.Port)
	assert.Equal(t, 168*time.Hour, s.TokenTTL())
	assert.Equal(t, 10, s.BcryptCost)
	assert.Equal(t, "mysql", DriverName(s))
	assert.Equal(t, 15*time.Second, s.SMTPTimeout)
	assert.False(t, s.MailConfigured())
	assert.NoError(t, s.CheckServer())
	assert.Equal(t, filepath.Join("logs", "postulate-api.log"), s.LogFile())
}

func TestLogFileFollowsLogDir(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_DIR", "/var/log/postulate")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/postulate/postulate-api.log", s.LogFile())
}

func TestInitLoggingWritesFile(t *testing.T) {
	prevWriter, prevOutput := LogWriter, log.Writer()
	t.Cleanup(func() {
		LogWriter = prevWriter
		log.SetOutput(prevOutput)
	})

	path := filepath.Join(t.TempDir(), "nested", "api.log")
	f, _ := InitLogging(path)
	require.NotNil(t, f)
	log.Print("hello from the log test")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the log test")
}

func TestCheckServer(t *testing.T) {
	assert.Error(t, Settings{}.CheckServer())
	assert.Error(t, Settings{Environment: "production", JWTSecret: "short"}.CheckServer())
	assert.NoError(t, Settings{Environment: "production", JWTSecret: "0123456789abcdef0123456789abcdef"}.CheckServer())
}

func TestAllowedOrigins(t *testing.T) {
	dev := Settings{FrontendURL: "http://localhost:5173/", CORSOrigins: []string{"https://ignored.example"}}
	assert.Equal(t, []string{"http://localhost:5173"}, dev.AllowedOrigins())

	prod := Settings{
		Environment: "production",
		FrontendURL: "https://app.example",
		CORSOrigins: []string{"https://trypostulate.com/", " https://extra.example ", ""},
	}
	assert.Equal(t, []string{"https://app.example", ProductionFrontend, GitHubPagesFrontend, "https://extra.example"}, prod.AllowedOrigins())
}

func TestMySQLDSN(t *testing.T) {
	s := Settings{DBUsername: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBDatabase: "postulate"}
	assert.Equal(t, "u:p@tcp(db:3306)/postulate?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true", s.MySQLDSN())

	s.DatabaseURL = "u:p@tcp(db:3306)/x"
	assert.Equal(t, "u:p@tcp(db:3306)/x?clientFoundRows=true", s.MySQLDSN())

	s.DatabaseURL = "u:p@tcp(db:3306)/x?clientFoundRows=false"
	assert.Equal(t, "u:p@tcp(db:3306)/x?clientFoundRows=false", s.MySQLDSN())
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := OpenDB(Settings{DBDriver: "oracle"})
	assert.EqualError(t, err, `unsupported DB_DRIVER "oracle"`)

	_, err = OpenDB(Settings{DBDriver: "postgres"})
	assert.Error(t, err)
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := OpenDB(Settings{DBDriver: "SQLite", DatabaseURL: ":memory:", QuietSQL: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, db.Exec("CREATE TABLE scratch_rows (id INTEGER)").Error)
	require.NoError(t, db.Exec("INSERT INTO scratch_rows VALUES (1)").Error)

	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM scratch_rows").Scan(&n).Error)
	assert.EqualValues(t, 1, n)
}
