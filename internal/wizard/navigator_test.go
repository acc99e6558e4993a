package wizard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_WithoutTemplateStaysOnFirstStep(t *testing.T) {
	s := NewStore(NewDraft(uuid.New()))
	s.MergeFormData(types.FormDataPatch{PersonalInfo: &types.PersonalInfo{FullName: "John Doe", Email: "john@x.com"}})

	o := Next(s)

	assert.False(t, o.Moved)
	assert.Equal(t, RedirectTemplate, o.Redirect)
	assert.Equal(t, FirstStep, s.Draft().Step)
}

func TestNext_PersonalInfoAdvances(t *testing.T) {
	fd := types.NewFormData()
	fd.PersonalInfo = &types.PersonalInfo{FullName: "John Doe", Email: "john@x.com"}
	s := NewStore(draftAt(StepPersonalInfo, fd))

	o := Next(s)

	assert.True(t, o.Moved)
	assert.Equal(t, StepProfessionalSummary, o.Step)
	assert.Equal(t, StepProfessionalSummary, s.Draft().Step)
}

func TestNext_EmptyWorkExperienceBlocks(t *testing.T) {
	fd := completeFormData()
	fd.WorkExperiences = []types.WorkExperience{}
	s := NewStore(draftAt(StepWorkExperience, fd))
	before := s.Draft()

	o := Next(s)

	assert.False(t, o.Moved)
	assert.True(t, o.Blocked())
	assert.Equal(t, "Work Experience Required", o.Notification.Title)
	assert.Equal(t, before, s.Draft())
}

func TestNext_OptionalStepsAlwaysAdvance(t *testing.T) {
	for _, step := range []StepID{StepLanguages, StepProjects, StepCertifications} {
		s := NewStore(draftAt(step, types.NewFormData()))
		o := Next(s)
		assert.True(t, o.Moved, "step %s", step)
		assert.Equal(t, step+1, s.Draft().Step)
	}
}

func TestNext_AtLastStepIsNoop(t *testing.T) {
	s := NewStore(draftAt(StepPreview, completeFormData()))
	o := Next(s)
	assert.True(t, o.Suppressed)
	assert.Equal(t, StepPreview, s.Draft().Step)
}

func TestNext_StagedEditsCommittedOnExit(t *testing.T) {
	s := NewStore(draftAt(StepSkills, completeFormData()))
	empty := []types.Skill{}
	s.Stage(types.FormDataPatch{Skills: &empty})

	assert.True(t, CheckStep(StepSkills, s.Draft().FormData).Passed, "gate must not see staged edits")

	o := Next(s)
	assert.True(t, o.Blocked())
	assert.Equal(t, "Skills Required", o.Notification.Title)
	assert.False(t, s.Draft().HasPending())
	assert.Empty(t, s.Draft().FormData.Skills)
}

func TestBack(t *testing.T) {
	s := NewStore(draftAt(StepEducation, completeFormData()))
	o := Back(s)
	assert.True(t, o.Moved)
	assert.Equal(t, StepWorkExperience, s.Draft().Step)

	s = NewStore(draftAt(StepPersonalInfo, types.NewFormData()))
	o = Back(s)
	assert.False(t, o.Moved)
	assert.Equal(t, RedirectTemplate, o.Redirect)
	assert.Equal(t, StepPersonalInfo, s.Draft().Step)
}

func TestJump(t *testing.T) {
	t.Run("back to reached step", func(t *testing.T) {
		s := NewStore(draftAt(StepProjects, completeFormData()))
		o := Jump(s, StepWorkExperience)
		assert.True(t, o.Moved)
		assert.Equal(t, StepWorkExperience, s.Draft().Step)
		assert.Equal(t, StepProjects, s.Draft().Furthest)
	})

	t.Run("forward to reached step", func(t *testing.T) {
		d := draftAt(StepProjects, completeFormData())
		d.Step = StepEducation
		s := NewStore(d)
		o := Jump(s, StepProjects)
		assert.True(t, o.Moved)
		assert.Equal(t, StepProjects, s.Draft().Step)
	})

	t.Run("unreached step suppressed", func(t *testing.T) {
		s := NewStore(draftAt(StepEducation, completeFormData()))
		o := Jump(s, StepPreview)
		assert.True(t, o.Suppressed)
		assert.Equal(t, StepEducation, s.Draft().Step)
	})

	t.Run("out of range suppressed", func(t *testing.T) {
		s := NewStore(draftAt(StepEducation, completeFormData()))
		assert.True(t, Jump(s, 0).Suppressed)
		assert.True(t, Jump(s, 12).Suppressed)
	})

	t.Run("no template suppressed", func(t *testing.T) {
		d := NewDraft(uuid.New())
		d.Furthest = StepSkills
		s := NewStore(d)
		assert.True(t, Jump(s, StepEducation).Suppressed)
		assert.Equal(t, FirstStep, s.Draft().Step)
	})

	t.Run("forward past a failing gate is refused", func(t *testing.T) {
		d := draftAt(StepProjects, completeFormData())
		d.Step = StepWorkExperience
		s := NewStore(d)
		none := []types.WorkExperience{}
		s.Stage(types.FormDataPatch{WorkExperiences: &none})

		o := Jump(s, StepProjects)
		assert.True(t, o.Blocked())
		assert.Equal(t, StepWorkExperience, s.Draft().Step)
	})
}

func TestFinish(t *testing.T) {
	t.Run("complete draft at preview", func(t *testing.T) {
		s := NewStore(draftAt(StepPreview, completeFormData()))
		o := Finish(s)
		require.NotNil(t, o.Finished)
		assert.Equal(t, "John Doe", o.Finished.PersonalInfo.FullName)
	})

	t.Run("not at preview", func(t *testing.T) {
		s := NewStore(draftAt(StepSkills, completeFormData()))
		o := Finish(s)
		assert.Nil(t, o.Finished)
		assert.True(t, o.Suppressed)
	})

	t.Run("mandatory category emptied", func(t *testing.T) {
		s := NewStore(draftAt(StepPreview, completeFormData()))
		s.Stage(types.FormDataPatch{ProfessionalSummary: &types.ProfessionalSummary{}})
		o := Finish(s)
		assert.Nil(t, o.Finished)
		require.True(t, o.Blocked())
		assert.Equal(t, "Professional Summary Required", o.Notification.Title)
	})

	t.Run("no template", func(t *testing.T) {
		d := draftAt(StepPreview, completeFormData())
		d.TemplateID = nil
		o := Finish(NewStore(d))
		assert.Equal(t, RedirectTemplate, o.Redirect)
		assert.Nil(t, o.Finished)
	})
}

func TestWalkThroughWholeFlow(t *testing.T) {
	s := NewStore(NewDraft(uuid.New()))
	s.SelectTemplate("toronto")
	full := completeFormData()

	s.Stage(types.FormDataPatch{PersonalInfo: full.PersonalInfo})
	require.True(t, Next(s).Moved)
	s.Stage(types.FormDataPatch{ProfessionalSummary: full.ProfessionalSummary})
	require.True(t, Next(s).Moved)
	s.Stage(types.FormDataPatch{WorkExperiences: &full.WorkExperiences})
	require.True(t, Next(s).Moved)
	s.Stage(types.FormDataPatch{Educations: &full.Educations})
	require.True(t, Next(s).Moved)
	s.Stage(types.FormDataPatch{Skills: &full.Skills})
	for i := 0; i < 4; i++ {
		require.True(t, Next(s).Moved)
	}

	assert.Equal(t, StepPreview, s.Draft().Step)
	o := Finish(s)
	require.NotNil(t, o.Finished)
	assert.Len(t, o.Finished.Skills, 1)
}
