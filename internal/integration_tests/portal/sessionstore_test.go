//go:build integration

package portal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroportal/internal/membership"
	"neuroportal/internal/wizard"
	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/sentinel"
	"neuroportal/pkg/testutil/containers"
)

func TestRedisWizardStore(t *testing.T) {
	rd := containers.NewRedisContainer(t)
	ctx := context.Background()

	t.Run("snapshot round trip", func(t *testing.T) {
		store := wizard.NewRedisStore(rd.Client, time.Hour)
		sessionID := id.NewSessionID()

		w := wizard.New(membership.Steps(), membership.StepAccountCreation)
		w.SetStepData(membership.StepAccountCreation, []byte(`{"email":"a@example.org"}`))
		w.Next()
		require.NoError(t, store.Save(ctx, sessionID, w.Snapshot(time.Now())))

		state, err := store.Find(ctx, sessionID)
		require.NoError(t, err)
		restored := wizard.Restore(state)
		assert.Equal(t, membership.StepEmailVerification, restored.Current())
		assert.JSONEq(t, `{"email":"a@example.org"}`, string(restored.StepData(membership.StepAccountCreation)))

		require.NoError(t, store.Delete(ctx, sessionID))
		_, err = store.Find(ctx, sessionID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("abandoned sessions expire", func(t *testing.T) {
		store := wizard.NewRedisStore(rd.Client, time.Second)
		sessionID := id.NewSessionID()

		w := wizard.New(membership.Steps(), membership.StepAccountCreation)
		require.NoError(t, store.Save(ctx, sessionID, w.Snapshot(time.Now())))

		_, err := store.Find(ctx, sessionID)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			_, err := store.Find(ctx, sessionID)
			return err != nil
		}, 5*time.Second, 100*time.Millisecond, "session should expire with its TTL")
	})

	t.Run("unknown session", func(t *testing.T) {
		store := wizard.NewRedisStore(rd.Client, time.Hour)
		_, err := store.Find(ctx, id.NewSessionID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
