package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = b
	return &s3.PutObjectOutput{}, f.err
}

func TestUploadObject(t *testing.T) {
	fake := &fakeS3{}
	c := &Client{s3: fake, baseURL: "https://abc.supabase.co"}

	require.NoError(t, c.UploadObject(context.Background(), "project-images", "a.png", "image/png", []byte("png")))
	assert.Equal(t, "project-images", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "a.png", aws.ToString(fake.input.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.EqualValues(t, 3, aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, []byte("png"), fake.body)
}

func TestUploadObjectError(t *testing.T) {
	fake := &fakeS3{err: errors.New("AccessDenied")}
	c := &Client{s3: fake, baseURL: "https://abc.supabase.co"}

	err := c.UploadObject(context.Background(), "project-images", "a.png", "image/png", nil)
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestPublicURL(t *testing.T) {
	c := &Client{baseURL: "https://abc.supabase.co"}
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/project-images/a.png",
		c.PublicURL("project-images", "a.png"))
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/project-images/dir/my%20file.png",
		c.PublicURL("project-images", "dir/my file.png"))
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)

	c, err := New(context.Background(), Config{SupabaseURL: "https://abc.supabase.co/", AccessKeyID: "id", SecretAccessKey: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co", c.baseURL)
}
