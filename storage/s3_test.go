package storage

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"academia/config"
)

type fakeObject struct {
	data     []byte
	modified time.Time
}

// fakeObjects ist ein In-Memory-Bucket für Tests.
type fakeObjects struct {
	mu        sync.Mutex
	objects   map[string]fakeObject
	failKeys  map[string]bool
	now       time.Time
	pageLimit int
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string]fakeObject{}, failKeys: map[string]bool{}, now: time.Unix(1700000000, 0)}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _ := io.ReadAll(in.Body)
	f.now = f.now.Add(time.Minute)
	f.objects[aws.ToString(in.Key)] = fakeObject{data: data, modified: f.now}
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
	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := len(keys)
	if f.pageLimit > 0 && start+f.pageLimit < end {
		end = start + f.pageLimit
	}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	}
	for _, k := range keys[start:end] {
		o := f.objects[k]
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), LastModified: aws.Time(o.modified)})
	}
	return out, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	if f.failKeys[key] {
		return nil, errors.New("access denied")
	}
	delete(f.objects, key)
	return &s3.DeleteObjectOutput{}, nil
}

func testBucket(api ObjectAPI) *Bucket {
	return NewBucket(api, &config.Config{S3Bucket: "archive", S3URL: "https://s3.example.com/"}, zap.NewNop())
}

func TestBucket_Upload(t *testing.T) {
	api := newFakeObjects()
	b := testBucket(api)

	link, err := b.Upload(context.Background(), "snapshots/a.json.gz", "application/gzip", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/archive/snapshots/a.json.gz", link)
	assert.Equal(t, []byte("x"), api.objects["snapshots/a.json.gz"].data)
}

func TestBucket_Rotate(t *testing.T) {
	api := newFakeObjects()
	api.pageLimit = 2
	b := testBucket(api)
	ctx := context.Background()

	for _, k := range []string{"snapshots/1", "snapshots/2", "snapshots/3", "snapshots/4", "documents/x.pdf"} {
		_, err := b.Upload(ctx, k, "", []byte(k))
		require.NoError(t, err)
	}

	deleted, err := b.Rotate(ctx, "snapshots/", 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"snapshots/1", "snapshots/2"}, deleted)
	assert.Contains(t, api.objects, "snapshots/3")
	assert.Contains(t, api.objects, "snapshots/4")
	assert.Contains(t, api.objects, "documents/x.pdf")
}

func TestBucket_RotateKeepsGoingOnDeleteFailure(t *testing.T) {
	api := newFakeObjects()
	b := testBucket(api)
	ctx := context.Background()
	for _, k := range []string{"s/1", "s/2", "s/3"} {
		_, _ = b.Upload(ctx, k, "", nil)
	}
	api.failKeys["s/1"] = true

	deleted, err := b.Rotate(ctx, "s/", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"s/2"}, deleted)
}

func TestBucket_RotateNothingToDo(t *testing.T) {
	b := testBucket(newFakeObjects())
	deleted, err := b.Rotate(context.Background(), "snapshots/", 3)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}
