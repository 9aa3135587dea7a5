package monthlytest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/phrasebot/pkg/models"
)

func testCatalog(n int) []models.Phrase {
	catalog := make([]models.Phrase, 0, n)
	korean := []string{
		"안녕하세요", "주문하시겠어요?", "감사합니다", "어서 오세요", "양파 썰어주세요",
		"잠시만 기다려주세요", "맛있게 드세요", "계산 도와드릴까요?", "또 오세요", "죄송합니다",
		"물 좀 주세요", "자리 있어요?", "포장해 주세요", "메뉴판 주세요", "천천히 오세요",
	}
	for i := 0; i < n; i++ {
		catalog = append(catalog, models.Phrase{ID: i + 1, Korean: korean[i%len(korean)] + "#" + string(rune('a'+i))})
	}
	return catalog
}

func TestIsLastDayOfMonth(t *testing.T) {
	tests := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2026, 1, 31, 10, 0, 0, 0, time.Local), true},
		{time.Date(2026, 2, 28, 0, 0, 0, 0, time.Local), true},  // non-leap February
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local), true},  // leap February
		{time.Date(2024, 2, 28, 0, 0, 0, 0, time.Local), false}, // leap February, day before
		{time.Date(2026, 4, 30, 0, 0, 0, 0, time.Local), true},
		{time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local), false},
		{time.Date(2026, 12, 31, 23, 0, 0, 0, time.Local), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLastDayOfMonth(tt.date), tt.date.Format("2006-01-02"))
	}
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-01", MonthKey(time.Date(2026, 1, 31, 0, 0, 0, 0, time.Local)))
}

func TestBuildPoolIsDeterministicReplay(t *testing.T) {
	catalog := testCatalog(15)
	a := New(catalog, 3, nil)
	today := time.Date(2026, 1, 20, 14, 0, 0, 0, time.Local)

	first := a.BuildPool(today)
	second := a.BuildPool(today)
	require.Equal(t, first, second, "replay of the same month must be identical")
	assert.NotEmpty(t, first)
}

func TestBuildPoolDeduplicates(t *testing.T) {
	catalog := testCatalog(4) // tiny catalog forces repeats across days
	a := New(catalog, 3, nil)
	today := time.Date(2026, 1, 25, 0, 0, 0, 0, time.Local)

	pool := a.BuildPool(today)
	seen := make(map[string]bool)
	for _, p := range pool {
		require.False(t, seen[p.Key()], "pool must not contain duplicates")
		seen[p.Key()] = true
	}
	assert.LessOrEqual(t, len(pool), len(catalog))
}

func TestBuildPoolExcludesToday(t *testing.T) {
	a := New(testCatalog(15), 3, nil)

	// On the 1st, no history exists yet
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	assert.Empty(t, a.BuildPool(first))

	// On the 2nd, exactly one day was replayed
	second := time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)
	assert.Len(t, a.BuildPool(second), 3)
}

func TestSampleTestSizes(t *testing.T) {
	a := New(nil, 3, nil)
	pool := testCatalog(15)

	sampled := a.SampleTest(pool, TestSize)
	assert.Len(t, sampled, TestSize)

	// No duplicates, all from the pool
	inPool := make(map[string]bool)
	for _, p := range pool {
		inPool[p.Key()] = true
	}
	seen := make(map[string]bool)
	for _, p := range sampled {
		assert.True(t, inPool[p.Key()])
		assert.False(t, seen[p.Key()])
		seen[p.Key()] = true
	}

	// Insufficient history: the whole pool is used, no failure
	small := pool[:4]
	assert.Len(t, a.SampleTest(small, TestSize), 4)
	assert.Empty(t, a.SampleTest(nil, TestSize))
}

func TestScore(t *testing.T) {
	score, pass := Score(7, 10)
	assert.Equal(t, 70.0, score)
	assert.True(t, pass)

	score, pass = Score(6, 10)
	assert.Equal(t, 60.0, score)
	assert.False(t, pass)

	score, pass = Score(10, 10)
	assert.Equal(t, 100.0, score)
	assert.True(t, pass)

	_, pass = Score(0, 0)
	assert.False(t, pass)
}
