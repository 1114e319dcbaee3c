package directory

// Integration tests against a real Postgres. Set TEST_DATABASE_URL to run
// them; without it every test here skips.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dartlens/pkg/core/dart"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM companies`)
		pool.Close()
	})
	if err := InitSchema(ctx, pool); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return New(pool)
}

func loadCorps(t *testing.T, s *Store, corps []dart.CorpInfo) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpCodes.json")
	if err := dart.SaveCorpCodes(corps, path); err != nil {
		t.Fatalf("snapshot write: %v", err)
	}
	if err := s.LoadSnapshot(context.Background(), path); err != nil {
		t.Fatalf("snapshot load: %v", err)
	}
}

func TestSearchOrdering(t *testing.T) {
	s := testStore(t)
	loadCorps(t, s, []dart.CorpInfo{
		{CorpCode: "00000004", CorpName: "삼성전자서비스"},
		{CorpCode: "00000002", CorpName: "삼성전자", StockCode: "005930"},
		{CorpCode: "00000003", CorpName: "호텔삼성"},
		{CorpCode: "00000001", CorpName: "삼성"},
		{CorpCode: "00000005", CorpName: "카카오"},
	})

	got, err := s.Search(context.Background(), "삼성", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	// Exact match first, then ascending name length, then name.
	want := []string{"삼성", "삼성전자", "호텔삼성", "삼성전자서비스"}
	if len(got) != len(want) {
		t.Fatalf("results: got %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].CorpName != name {
			t.Errorf("result[%d]: got %q, want %q", i, got[i].CorpName, name)
		}
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	s := testStore(t)
	loadCorps(t, s, []dart.CorpInfo{
		{CorpCode: "00000001", CorpName: "삼성"},
		{CorpCode: "00000002", CorpName: "삼성전자"},
		{CorpCode: "00000003", CorpName: "삼성전자서비스"},
	})

	got, err := s.Search(context.Background(), "삼성", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limit: got %d rows, want 2", len(got))
	}
}

func TestSearchEmptyDirectory(t *testing.T) {
	s := testStore(t)
	loadCorps(t, s, nil)

	got, err := s.Search(context.Background(), "삼성", 10)
	if err != nil {
		t.Fatalf("empty directory should not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results: got %d, want 0", len(got))
	}
}

func TestLoadSnapshotReplacesWholesale(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	loadCorps(t, s, []dart.CorpInfo{
		{CorpCode: "00000001", CorpName: "삼성전자", StockCode: "005930"},
		{CorpCode: "00000002", CorpName: "카카오", StockCode: "035720"},
	})
	loadCorps(t, s, []dart.CorpInfo{
		{CorpCode: "00000003", CorpName: "NAVER", StockCode: "035420"},
	})

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count after reload: got %d, want 1", n)
	}
	if _, err := s.GetByCode(ctx, "00000001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old record after reload: got %v, want ErrNotFound", err)
	}
	if _, err := s.GetByCode(ctx, "00000003"); err != nil {
		t.Errorf("new record: %v", err)
	}
}

func TestPopularCompaniesSkipsMissing(t *testing.T) {
	s := testStore(t)
	loadCorps(t, s, []dart.CorpInfo{
		{CorpCode: "00000001", CorpName: "삼성전자", StockCode: "005930"},
		{CorpCode: "00000002", CorpName: "카카오", StockCode: "035720"},
	})

	got, err := s.PopularCompanies(context.Background(),
		[]string{"NAVER", "카카오", "삼성전자"}, 10)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}

	// Curated order preserved, unmatched names skipped silently.
	if len(got) != 2 || got[0].CorpName != "카카오" || got[1].CorpName != "삼성전자" {
		t.Errorf("popular: got %+v", got)
	}
}

func TestListedCountsOnlyTickered(t *testing.T) {
	s := testStore(t)
	loadCorps(t, s, []dart.CorpInfo{
		{CorpCode: "00000001", CorpName: "삼성전자", StockCode: "005930"},
		{CorpCode: "00000002", CorpName: "비상장회사"},
	})

	n, err := s.ListedCount(context.Background())
	if err != nil {
		t.Fatalf("listed count: %v", err)
	}
	if n != 1 {
		t.Errorf("listed count: got %d, want 1", n)
	}
	listed, err := s.ListedCompanies(context.Background(), 10)
	if err != nil {
		t.Fatalf("listed companies: %v", err)
	}
	if len(listed) != 1 || listed[0].CorpName != "삼성전자" {
		t.Errorf("listed companies: got %+v", listed)
	}
}
