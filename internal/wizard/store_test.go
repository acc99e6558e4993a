package wizard

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft(t *testing.T) {
	owner := uuid.New()
	d := NewDraft(owner)

	assert.Equal(t, owner, d.OwnerID)
	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.Equal(t, FirstStep, d.Step)
	assert.Nil(t, d.TemplateID)
	assert.False(t, d.HasTemplate())
	assert.NotNil(t, d.FormData.Skills)
	assert.False(t, d.HasPending())
}

func TestReduce_StepStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := NewDraft(uuid.New())

	for i := 0; i < 5000; i++ {
		var a Action
		switch rng.Intn(3) {
		case 0:
			a = NextStep{}
		case 1:
			a = PrevStep{}
		default:
			a = SetStep{Step: StepID(rng.Intn(30) - 10)}
		}
		d = Reduce(d, a)
		require.True(t, d.Step.Valid(), "step %d out of range after %T", d.Step, a)
		require.GreaterOrEqual(t, d.Furthest, d.Step)
	}
}

func TestReduce_Boundaries(t *testing.T) {
	d := NewDraft(uuid.New())

	d = Reduce(d, PrevStep{})
	assert.Equal(t, FirstStep, d.Step)

	d = Reduce(d, SetStep{Step: LastStep})
	d = Reduce(d, NextStep{})
	assert.Equal(t, LastStep, d.Step)

	d = Reduce(d, SetStep{Step: 42})
	assert.Equal(t, LastStep, d.Step)
	d = Reduce(d, SetStep{Step: -1})
	assert.Equal(t, FirstStep, d.Step)
	assert.Equal(t, LastStep, d.Furthest)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	d := NewDraft(uuid.New())
	skills := []types.Skill{{Name: "Go", Level: types.SkillExpert}}

	next := Reduce(d, UpdateFormData{Patch: types.FormDataPatch{Skills: &skills}})
	next = Reduce(next, SelectTemplate{TemplateID: "toronto"})

	assert.Empty(t, d.FormData.Skills)
	assert.Nil(t, d.TemplateID)
	assert.Len(t, next.FormData.Skills, 1)
	assert.Equal(t, "toronto", *next.TemplateID)
}

func TestReduce_MergeKeepsUntouchedCategories(t *testing.T) {
	d := draftAt(StepSkills, completeFormData())
	before := d.FormData

	skills := []types.Skill{{Name: "Rust", Level: types.SkillBeginner}}
	d = Reduce(d, UpdateFormData{Patch: types.FormDataPatch{Skills: &skills}})

	assert.Equal(t, before.PersonalInfo, d.FormData.PersonalInfo)
	assert.Equal(t, before.ProfessionalSummary, d.FormData.ProfessionalSummary)
	assert.Equal(t, before.WorkExperiences, d.FormData.WorkExperiences)
	assert.Equal(t, before.Educations, d.FormData.Educations)
	assert.Equal(t, before.Title, d.FormData.Title)
	assert.Equal(t, "Rust", d.FormData.Skills[0].Name)
}

func TestStore_StageAndCommit(t *testing.T) {
	s := NewStore(NewDraft(uuid.New()))

	s.Stage(types.FormDataPatch{PersonalInfo: &types.PersonalInfo{FullName: "A", Email: "a@x.com"}})
	s.Stage(types.FormDataPatch{PersonalInfo: &types.PersonalInfo{FullName: "John Doe", Email: "john@x.com"}})

	require.True(t, s.Draft().HasPending())
	assert.Nil(t, s.Draft().FormData.PersonalInfo)
	assert.Equal(t, "John Doe", s.Draft().Effective().PersonalInfo.FullName)

	s.Commit()
	assert.False(t, s.Draft().HasPending())
	require.NotNil(t, s.Draft().FormData.PersonalInfo)
	assert.Equal(t, "John Doe", s.Draft().FormData.PersonalInfo.FullName)
}

func TestStore_StageNormalizesLineEndings(t *testing.T) {
	s := NewStore(NewDraft(uuid.New()))
	s.Stage(types.FormDataPatch{ProfessionalSummary: &types.ProfessionalSummary{Summary: "line one\r\nline two"}})
	s.Commit()

	require.NotNil(t, s.Draft().FormData.ProfessionalSummary)
	assert.Equal(t, "line one\nline two", s.Draft().FormData.ProfessionalSummary.Summary)
}

func TestStore_Operations(t *testing.T) {
	s := NewStore(NewDraft(uuid.New()))

	s.SelectTemplate("montreal")
	s.AdvanceStep()
	s.AdvanceStep()
	s.RetreatStep()
	assert.Equal(t, StepProfessionalSummary, s.Draft().Step)
	assert.Equal(t, StepWorkExperience, s.Draft().Furthest)

	s.SetStep(StepSkills)
	assert.Equal(t, StepSkills, s.Draft().Step)

	s.MergeFormData(types.FormDataPatch{Title: ptr("cv")})
	assert.Equal(t, "cv", s.Draft().FormData.Title)
	assert.Equal(t, "montreal", *s.Draft().TemplateID)
}
