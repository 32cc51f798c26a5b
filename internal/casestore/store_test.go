package casestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"casefinder/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSeedAndGetByNumberAndID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, len(SeedCases()), n)

	byNumber, err := s.Get(ctx, domain.SearchByCaseNumber, "10010010")
	require.NoError(t, err)
	require.Equal(t, "500Ab00000abABCAB0", byNumber.ID)

	byID, err := s.Get(ctx, domain.SearchByID, "500Ab00000abABCAB0")
	require.NoError(t, err)
	require.Equal(t, byNumber, byID)
	require.Equal(t, time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC), byID.CreatedDate)
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), domain.SearchByCaseNumber, "99999999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetUnsupportedSearchType(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "Email", "x")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestPutUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := domain.CaseRecord{ID: "500000000000000001", CaseNumber: "20020020", Subject: "first"}
	require.NoError(t, s.Put(ctx, rec))

	rec.Subject = "second"
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, domain.SearchByID, rec.ID)
	require.NoError(t, err)
	require.Equal(t, "second", got.Subject)
	require.False(t, got.CreatedDate.IsZero())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestPutRequiresKeys(t *testing.T) {
	s := openTestStore(t)
	require.Error(t, s.Put(context.Background(), domain.CaseRecord{Subject: "orphan"}))
}

func TestInMemoryStore(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Seed(context.Background()))
	_, err = s.Get(context.Background(), domain.SearchByCaseNumber, "10010012")
	require.NoError(t, err)
}
