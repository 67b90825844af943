package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinuityResolver_Resolve(t *testing.T) {
	tests := []struct {
		name         string
		seeds        map[string]string
		failures     []string
		wantDate     string
		wantEnding   string
		wantFailed   int
		wantFirst    bool
		wantUnsolved bool
	}{
		{
			name:      "no history is a first entry",
			wantFirst: true,
		},
		{
			name:       "previous day",
			seeds:      map[string]string{"2024-05-09": "1300", "2024-05-08": "900"},
			wantDate:   "2024-05-09",
			wantEnding: "1300",
		},
		{
			name:       "skips a weekend",
			seeds:      map[string]string{"2024-05-07": "750.25"},
			wantDate:   "2024-05-07",
			wantEnding: "750.25",
		},
		{
			name:       "tenth day back is still inside the window",
			seeds:      map[string]string{"2024-04-30": "10"},
			wantDate:   "2024-04-30",
			wantEnding: "10",
		},
		{
			name:      "eleventh day back starts a new chain",
			seeds:     map[string]string{"2024-04-29": "10"},
			wantFirst: true,
		},
		{
			name:         "failed step in front of a record",
			seeds:        map[string]string{"2024-05-08": "900"},
			failures:     []string{"2024-05-09"},
			wantDate:     "2024-05-08",
			wantEnding:   "900",
			wantFailed:   1,
			wantUnsolved: true,
		},
		{
			name:         "failure with nothing found is not a first entry",
			failures:     []string{"2024-05-05", "2024-05-03"},
			wantFailed:   2,
			wantUnsolved: true,
		},
		{
			name:       "failure behind the nearest record is never reached",
			seeds:      map[string]string{"2024-05-09": "1300"},
			failures:   []string{"2024-05-08"},
			wantDate:   "2024-05-09",
			wantEnding: "1300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFaultyStore()
			for date, ending := range tt.seeds {
				seed(t, store, date, ending)
			}
			for _, date := range tt.failures {
				store.failFind(date, errors.New("connection reset"))
			}

			r := NewContinuityResolver(store, DefaultLookbackDays, zerolog.Nop())
			res := r.Resolve(context.Background(), testKey(t, "2024-05-10"))

			assert.Equal(t, tt.wantFirst, res.FirstEntry())
			assert.Equal(t, tt.wantUnsolved, res.Unresolved())
			assert.Len(t, res.Failed, tt.wantFailed)

			if tt.wantDate == "" {
				assert.Nil(t, res.Previous)
			} else {
				require.NotNil(t, res.Previous)
				assert.Equal(t, tt.wantDate, res.Previous.Date.Format("2006-01-02"))
				assert.True(t, dec(tt.wantEnding).Equal(res.Previous.EndingBalance))
			}

			if tt.wantUnsolved {
				err := res.Err()
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrContinuityUnresolved))
			} else {
				assert.NoError(t, res.Err())
			}
		})
	}
}

func TestContinuityResolver_UnresolvedMessageNamesDates(t *testing.T) {
	store := newFaultyStore()
	seed(t, store, "2024-05-08", "10523.40")
	store.failFind("2024-05-09", errors.New("timeout"))

	r := NewContinuityResolver(store, DefaultLookbackDays, zerolog.Nop())
	err := r.Resolve(context.Background(), testKey(t, "2024-05-10")).Err()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-05-09")
	assert.Contains(t, err.Error(), "2024-05-08 ending 10,523.40")
}

func TestContinuityResolver_CustomLookback(t *testing.T) {
	store := newFaultyStore()
	seed(t, store, "2024-05-06", "100")

	short := NewContinuityResolver(store, 3, zerolog.Nop())
	assert.True(t, short.Resolve(context.Background(), testKey(t, "2024-05-10")).FirstEntry())

	long := NewContinuityResolver(store, 4, zerolog.Nop())
	assert.NotNil(t, long.Resolve(context.Background(), testKey(t, "2024-05-10")).Previous)
}

func TestDuplicateGuard_Check(t *testing.T) {
	store := newFaultyStore()
	seed(t, store, "2024-05-09", "100")
	guard := NewDuplicateGuard(store, zerolog.Nop())

	exists, err := guard.Check(context.Background(), testKey(t, "2024-05-09"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = guard.Check(context.Background(), testKey(t, "2024-05-10"))
	require.NoError(t, err)
	assert.False(t, exists)

	cause := errors.New("database is locked")
	store.setExistsErr(cause)
	_, err = guard.Check(context.Background(), testKey(t, "2024-05-10"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCheckFailed))
	assert.True(t, errors.Is(err, cause))
}
