//go:build integration

package session

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) *RedisStore {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}
	client, err := NewRedisClient(context.Background(), redisURL)
	require.NoError(t, err)
	s := NewRedisStore(client, time.Minute)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupRedisStore(t)

	d := wizard.NewDraft(uuid.New())
	require.NoError(t, s.Create(ctx, d))

	out, err := s.Update(ctx, d.ID, func(st *wizard.Store) error {
		st.SelectTemplate("toronto")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "toronto", *out.TemplateID)

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "toronto", *got.TemplateID)

	require.NoError(t, s.Delete(ctx, d.ID))
	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := setupRedisStore(t)

	d := wizard.NewDraft(uuid.New())
	require.NoError(t, s.Create(ctx, d))
	defer s.Delete(ctx, d.ID)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, d.ID, func(st *wizard.Store) error {
				skills := append([]types.Skill{}, st.Draft().FormData.Skills...)
				skills = append(skills, types.Skill{Name: "Go", Level: types.SkillExpert})
				st.MergeFormData(types.FormDataPatch{Skills: &skills})
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, got.FormData.Skills, 3)
}
