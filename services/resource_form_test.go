package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"academia/apperrors"
	"academia/models"
)

type refreshCounter struct{ calls int }

func (r *refreshCounter) refresh(context.Context) error {
	r.calls++
	return nil
}

func TestResourceForm_Defaults(t *testing.T) {
	f := NewResourceForm(&fakeResources{}, loggedIn(), zap.NewNop())
	assert.Equal(t, models.KindThesis, f.Kind)
	assert.Equal(t, models.PlatformYouTube, f.Platform)
}

func TestResourceForm_SetKind(t *testing.T) {
	f := NewResourceForm(&fakeResources{}, loggedIn(), zap.NewNop())

	require.NoError(t, f.SetKind(models.KindVideo))
	assert.Equal(t, models.KindVideo, f.Kind)

	assert.ErrorIs(t, f.SetKind(models.KindArticle), apperrors.ErrUnsupportedKind)
	assert.ErrorIs(t, f.SetKind(models.KindEvent), apperrors.ErrUnsupportedKind)
	assert.ErrorIs(t, f.SetKind(models.Kind("PODCAST")), apperrors.ErrUnknownKind)
	assert.Equal(t, models.KindVideo, f.Kind)
}

func TestResourceForm_Validate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *ResourceForm)
		field string
	}{
		{"empty title", func(f *ResourceForm) {}, "title"},
		{"whitespace title", func(f *ResourceForm) { f.Title = "   " }, "title"},
		{"video without url", func(f *ResourceForm) {
			f.Title = "Clase"
			f.Kind = models.KindVideo
		}, "video_url"},
		{"bad platform", func(f *ResourceForm) {
			f.Title = "Clase"
			f.Kind = models.KindVideo
			f.VideoURL = "https://youtu.be/x"
			f.Platform = "Twitch"
		}, "platform"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewResourceForm(&fakeResources{}, loggedIn(), zap.NewNop())
			tt.setup(f)
			err := f.Validate()
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	f := NewResourceForm(&fakeResources{}, loggedIn(), zap.NewNop())
	f.Title = "Tesis"
	assert.NoError(t, f.Validate())
}

func TestResourceForm_DraftOnlyCarriesKindDetails(t *testing.T) {
	f := NewResourceForm(&fakeResources{}, loggedIn(), zap.NewNop())
	f.Title = "Mi tesis"
	f.RawTags = "IA, Tesis"
	f.Institution = "UNAM"
	f.DocumentURL = "https://x/a.pdf"
	f.VideoURL = "https://youtu.be/stale"

	d, err := f.Draft()
	require.NoError(t, err)
	assert.Equal(t, []string{"IA", "Tesis"}, d.Tags)
	assert.Equal(t, models.ResearchDetails{Institution: "UNAM", DocumentURL: "https://x/a.pdf"}, d.Details)

	require.NoError(t, f.SetKind(models.KindVideo))
	f.Duration = "15 min"
	f.Platform = models.PlatformVimeo
	d, err = f.Draft()
	require.NoError(t, err)
	assert.Equal(t, models.MediaDetails{VideoURL: "https://youtu.be/stale", Duration: "15 min", Platform: models.PlatformVimeo}, d.Details)
}

func TestResourceForm_SubmitSuccess(t *testing.T) {
	backend := &fakeResources{}
	f := NewResourceForm(backend, loggedIn(), zap.NewNop())
	f.Title = "Mi tesis"
	f.RawTags = "IA,,Tesis"
	f.Institution = "UNAM"
	rc := &refreshCounter{}

	created, err := f.Submit(context.Background(), rc.refresh)
	require.NoError(t, err)
	assert.Equal(t, "new-1", created.Resource.ID)
	assert.Equal(t, 1, rc.calls)
	assert.Equal(t, []string{testToken}, backend.tokens)
	assert.Equal(t, []string{"IA", "", "Tesis"}, backend.drafts[0].Tags)

	assert.Equal(t, NoticePublished, f.Notice)
	assert.Equal(t, "", f.Title)
	assert.Equal(t, "", f.RawTags)
	assert.Equal(t, "", f.Institution)
	assert.Equal(t, models.KindThesis, f.Kind)
}

func TestResourceForm_SubmitFailureKeepsState(t *testing.T) {
	backend := &fakeResources{createErr: &apperrors.RemoteError{Status: 500, Message: "Error"}}
	f := NewResourceForm(backend, loggedIn(), zap.NewNop())
	require.NoError(t, f.SetKind(models.KindVideo))
	f.Title = "Clase"
	f.VideoURL = "https://youtu.be/x"
	rc := &refreshCounter{}

	_, err := f.Submit(context.Background(), rc.refresh)
	require.Error(t, err)
	assert.Equal(t, 0, rc.calls)
	assert.Equal(t, NoticeCreateFailed, f.Notice)
	assert.Equal(t, "Clase", f.Title)
	assert.Equal(t, "https://youtu.be/x", f.VideoURL)
	assert.Equal(t, models.KindVideo, f.Kind)
	assert.Len(t, backend.drafts, 1)
}

func TestResourceForm_SubmitUnauthorizedClearsSession(t *testing.T) {
	session := loggedIn()
	f := NewResourceForm(&fakeResources{createErr: fmt.Errorf("create_resource: %w", errUnauthorized)}, session, zap.NewNop())
	f.Title = "Tesis"

	_, err := f.Submit(context.Background(), nil)
	assert.True(t, apperrors.IsAuth(err))
	assert.Equal(t, "", session.Token())
	assert.Equal(t, "Tesis", f.Title)
}

func TestResourceForm_SubmitWithoutSession(t *testing.T) {
	backend := &fakeResources{}
	f := NewResourceForm(backend, NewSession(NewMemoryStore(), zap.NewNop()), zap.NewNop())
	f.Title = "Tesis"

	_, err := f.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.Empty(t, backend.drafts)
}

func TestResourceForm_SubmitInvalidMakesNoCall(t *testing.T) {
	backend := &fakeResources{}
	f := NewResourceForm(backend, loggedIn(), zap.NewNop())

	_, err := f.Submit(context.Background(), nil)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, backend.drafts)
	assert.Equal(t, "title: title is required", f.Notice)
}

func TestResourceForm_RefreshErrorDoesNotFailSubmit(t *testing.T) {
	f := NewResourceForm(&fakeResources{}, loggedIn(), zap.NewNop())
	f.Title = "Tesis"

	_, err := f.Submit(context.Background(), func(context.Context) error { return errors.New("offline") })
	require.NoError(t, err)
	assert.Equal(t, NoticePublished, f.Notice)
}
