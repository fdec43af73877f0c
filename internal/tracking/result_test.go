package tracking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/tourguide/internal/gps"
)

func TestBatchResult_SettleAndSeal(t *testing.T) {
	t.Parallel()

	users := newUsers(3)
	r := newBatchResult(users)
	boom := errors.New("boom")

	r.settle(0, gps.VisitedLocation{UserID: users[0].ID}, 2, nil)
	r.settle(0, gps.VisitedLocation{}, 0, boom)
	assert.NoError(t, r.Outcomes[0].Err, "an outcome settles once")
	r.settle(2, gps.VisitedLocation{}, 0, boom)

	assert.Equal(t, 1, r.abandon(boom))
	r.settle(1, gps.VisitedLocation{}, 5, nil)

	require.Equal(t, 3, r.Len())
	assert.Equal(t, 1, r.Succeeded())
	assert.Len(t, r.Failed(), 2)
	assert.Equal(t, 2, r.RewardsGranted(), "late results are discarded")
	assert.ErrorIs(t, r.Err(), boom)
}

func TestTaskError(t *testing.T) {
	t.Parallel()

	u := newUsers(1)[0]
	cause := errors.New("no fix")
	err := newTaskError(u, StageLocate, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "tracking user internalUser0 failed at locate: no fix", err.Error())
}
