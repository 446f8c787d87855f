package commands

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"postulate-api/cmd/postulatectl/output"
	"postulate-api/models"
	"postulate-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchSource [][]models.WaitlistEntry

func (b batchSource) All(_ context.Context, fn func([]models.WaitlistEntry) error) error {
	for _, batch := range b {
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

func TestWriteCSV(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	company := "Acme, Inc."
	src := batchSource{
		{{ID: "1", Email: "a@x.com", Type: models.WaitlistCreator, CreatedAt: at}},
		{{ID: "2", Email: "b@x.com", Type: models.WaitlistCompany, Company: &company, CreatedAt: at}},
	}

	var buf bytes.Buffer
	n, err := writeCSV(context.Background(), &buf, src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"2", "b@x.com", "", "COMPANY", "Acme, Inc.", "", "2026-01-02T03:04:05Z"}, rows[2])
}

func TestWriteCSVNeutralisesFormulas(t *testing.T) {
	name := "=HYPERLINK(\"http://evil\",\"x\")"
	company := "+1 Corp"
	message := "-2+3"
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	src := batchSource{{{
		ID: "1", Email: "@a@x.com", Name: &name, Type: models.WaitlistCompany,
		Company: &company, Message: &message, CreatedAt: at,
	}}}

	var buf bytes.Buffer
	_, err := writeCSV(context.Background(), &buf, src)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "'@a@x.com", rows[1][1])
	assert.Equal(t, "'"+name, rows[1][2])
	assert.Equal(t, "COMPANY", rows[1][3])
	assert.Equal(t, "'+1 Corp", rows[1][4])
	assert.Equal(t, "'-2+3", rows[1][5])

	assert.Equal(t, "Acme", safeCell("Acme"))
	assert.Equal(t, "", safeCell(""))
}

func TestPrintLogTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	require.NoError(t, os.WriteFile(path, []byte("first line\nsecond line\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, printLogTail(&buf, path, 12))
	assert.Equal(t, "second line\n", buf.String())

	prev := output.Out
	var warn bytes.Buffer
	output.Out = &warn
	t.Cleanup(func() { output.Out = prev })

	buf.Reset()
	require.NoError(t, printLogTail(&buf, filepath.Join(t.TempDir(), "missing.log"), 0))
	assert.Empty(t, buf.String())
	assert.Contains(t, warn.String(), "No log file")
}

type fakeRoles struct {
	email string
	role  models.Role
	err   error
}

func (f *fakeRoles) SetRole(_ context.Context, email string, role models.Role) error {
	f.email, f.role = email, role
	return f.err
}

func TestParsePromotion(t *testing.T) {
	email, role, err := parsePromotion(" Ops@X.com ", "admin")
	require.NoError(t, err)
	assert.Equal(t, "ops@x.com", email)
	assert.Equal(t, models.RoleAdmin, role)

	_, _, err = parsePromotion("ops@x.com", "OWNER")
	assert.Error(t, err)
	_, _, err = parsePromotion("nope", "ADMIN")
	assert.Error(t, err)
}

func TestPromote(t *testing.T) {
	users := &fakeRoles{}
	require.NoError(t, promote(context.Background(), users, "ops@x.com", models.RoleAdmin))
	assert.Equal(t, "ops@x.com", users.email)
	assert.Equal(t, models.RoleAdmin, users.role)

	missing := &fakeRoles{err: repository.ErrNotFound}
	err := promote(context.Background(), missing, "ghost@x.com", models.RoleAdmin)
	assert.EqualError(t, err, "no user with email ghost@x.com")

	broken := &fakeRoles{err: errors.New("db down")}
	assert.EqualError(t, promote(context.Background(), broken, "a@x.com", models.RoleAdmin), "db down")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	prev := output.Out
	output.Out = &buf
	t.Cleanup(func() { output.Out = prev })

	printStats(models.WaitlistStats{Creators: 2, Companies: 1, Total: 3})
	assert.Contains(t, buf.String(), "Waitlist")
	assert.Contains(t, buf.String(), "Total")
	assert.Contains(t, buf.String(), "3")
}
