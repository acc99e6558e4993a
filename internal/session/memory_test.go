package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour, 0)
	defer s.Close()

	d := wizard.NewDraft(uuid.New())
	require.NoError(t, s.Create(ctx, d))

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	require.NoError(t, s.Delete(ctx, d.ID))
	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(ctx, d.ID))
}

func TestMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour, 0)
	defer s.Close()

	d := wizard.NewDraft(uuid.New())
	require.NoError(t, s.Create(ctx, d))

	out, err := s.Update(ctx, d.ID, func(st *wizard.Store) error {
		st.SelectTemplate("toronto")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, out.HasTemplate())
	assert.False(t, out.UpdatedAt.Before(d.UpdatedAt))

	boom := errors.New("boom")
	out, err = s.Update(ctx, d.ID, func(st *wizard.Store) error {
		st.SetStep(wizard.StepSkills)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, wizard.StepPersonalInfo, out.Step)

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepPersonalInfo, got.Step)

	_, err = s.Update(ctx, uuid.New(), func(*wizard.Store) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SerialisesWriters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour, 0)
	defer s.Close()

	d := wizard.NewDraft(uuid.New())
	require.NoError(t, s.Create(ctx, d))

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, d.ID, func(st *wizard.Store) error {
				skills := append([]types.Skill{}, st.Draft().FormData.Skills...)
				skills = append(skills, types.Skill{Name: "Go", Level: types.SkillExpert})
				st.MergeFormData(types.FormDataPatch{Skills: &skills})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, got.FormData.Skills, writers)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, 0)
	defer s.Close()

	now := time.Now()
	s.now = func() time.Time { return now }

	stale := wizard.NewDraft(uuid.New())
	fresh := wizard.NewDraft(uuid.New())
	require.NoError(t, s.Create(ctx, stale))

	now = now.Add(50 * time.Second)
	require.NoError(t, s.Create(ctx, fresh))

	now = now.Add(20 * time.Second)
	_, err := s.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, fresh.ID)
	assert.NoError(t, err)

	assert.Equal(t, 1, s.evictExpired())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	s := NewMemoryStore(time.Minute, time.Millisecond)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
