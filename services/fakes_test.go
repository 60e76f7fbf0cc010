package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"academia/apperrors"
	"academia/models"
)

const testToken = "tok-123"

// fakeResources ist ein In-Memory-Katalog mit Aufrufzählern.
type fakeResources struct {
	mu        sync.Mutex
	items     []models.Resource
	listErr   error
	createErr error
	listCalls int
	drafts    []models.ResourceDraft
	tokens    []string
}

func (f *fakeResources) ListResources(context.Context) ([]models.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Resource, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeResources) CreateResource(_ context.Context, token string, draft models.ResourceDraft) (*models.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, draft)
	f.tokens = append(f.tokens, token)
	if f.createErr != nil {
		return nil, f.createErr
	}
	r := models.Resource{ID: "new-1", Kind: draft.Kind, Title: draft.Title, Tags: draft.Tags, Details: draft.Details}
	f.items = append(f.items, r)
	return &r, nil
}

type fakeUsers struct {
	loginErr   error
	profile    *models.User
	profileErr error
	updates    []models.ProfileUpdate
	deleteErr  error
	deleted    int
	registered []models.Registration
}

func (f *fakeUsers) Login(_ context.Context, creds models.Credentials) (*models.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.LoginResult{Token: testToken, Name: "Ana"}, nil
}

func (f *fakeUsers) Register(_ context.Context, reg models.Registration) (string, error) {
	f.registered = append(f.registered, reg)
	return "Usuario registrado", nil
}

func (f *fakeUsers) Profile(_ context.Context, token string) (*models.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, token string, u models.ProfileUpdate) (*models.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	f.updates = append(f.updates, u)
	return &models.User{Name: "Ana", Headline: u.Headline, Skills: u.Skills, JobSearch: u.JobSearch}, nil
}

func (f *fakeUsers) DeleteAccount(_ context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted++
	return nil
}

type fakePosts struct {
	posts     []models.Post
	listErr   error
	createErr error
	drafts    []models.PostDraft
}

func (f *fakePosts) ListPosts(context.Context, string) ([]models.Post, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.posts, nil
}

func (f *fakePosts) CreatePost(_ context.Context, _ string, d models.PostDraft) (*models.Post, error) {
	f.drafts = append(f.drafts, d)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Post{ID: "p1", Content: d.Content, Anonymous: d.Anonymous}, nil
}

// loggedIn liefert eine Sitzung mit gespeichertem Token.
func loggedIn() *Session {
	s := NewSession(NewMemoryStore(), zap.NewNop())
	_ = s.Save(testToken, "Ana")
	return s
}

var errUnauthorized = apperrors.ErrUnauthorized

// fakeObjects ist ein In-Memory-S3-Bucket.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	times   map[string]time.Time
	clock   time.Time
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{
		objects: map[string][]byte{},
		types:   map[string]string{},
		times:   map[string]time.Time{},
		clock:   time.Unix(1700000000, 0),
	}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _ := io.ReadAll(in.Body)
	key := aws.ToString(in.Key)
	f.clock = f.clock.Add(time.Second)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	f.times[key] = f.clock
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), LastModified: aws.Time(f.times[k])})
	}
	return out, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjects) keys(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
