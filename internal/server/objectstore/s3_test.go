package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/sealbox/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "sealbox",
	}
}

type fakeUploader struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.in = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	return &manager.UploadOutput{}, f.err
}

// stubSDK replaces every SDK constructor seam and restores them on cleanup.
func stubSDK(t *testing.T, up *fakeUploader) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origUp := newUploader
	origPresign := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		newUploader = origUp
		presignGetObject = origPresign
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	newUploader = func(c *s3.Client) uploader { return up }
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	stubSDK(t, &fakeUploader{})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, "sealbox", st.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Store_LoadConfigError(t *testing.T) {
	stubSDK(t, &fakeUploader{})
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Store(context.Background(), testConfig())
	require.EqualError(t, err, "load-fail")
}

func TestS3Store_Put(t *testing.T) {
	up := &fakeUploader{}
	stubSDK(t, up)

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	err = st.Put(context.Background(), "files/u/2024/1/2/k", strings.NewReader("ciphertext"), 10, "application/octet-stream")
	require.NoError(t, err)

	require.NotNil(t, up.in)
	assert.Equal(t, "sealbox", aws.ToString(up.in.Bucket))
	assert.Equal(t, "files/u/2024/1/2/k", aws.ToString(up.in.Key))
	assert.Equal(t, "application/octet-stream", aws.ToString(up.in.ContentType))
	assert.Equal(t, int64(10), aws.ToInt64(up.in.ContentLength))
	assert.Equal(t, "ciphertext", up.body)
}

func TestS3Store_PutUnknownSize(t *testing.T) {
	up := &fakeUploader{}
	stubSDK(t, up)

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	require.NoError(t, st.Put(context.Background(), "k", strings.NewReader("x"), -1, ""))
	assert.Nil(t, up.in.ContentLength)
	assert.Nil(t, up.in.ContentType)
}

func TestS3Store_PutError(t *testing.T) {
	up := &fakeUploader{err: errors.New("put-fail")}
	stubSDK(t, up)

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	err = st.Put(context.Background(), "k", strings.NewReader("x"), 1, "")
	require.EqualError(t, err, "put-fail")
}

func TestS3Store_PresignGet(t *testing.T) {
	stubSDK(t, &fakeUploader{})

	var gotExpires time.Duration
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "sealbox", aws.ToString(in.Bucket))
		assert.Equal(t, "files/k", aws.ToString(in.Key))
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		gotExpires = po.Expires
		return &v4.PresignedHTTPRequest{URL: "https://example/files/k?sig"}, nil
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	url, err := st.PresignGet(context.Background(), "files/k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://example/files/k?sig", url)
	assert.Equal(t, time.Hour, gotExpires)
}

func TestS3Store_PresignGetError(t *testing.T) {
	stubSDK(t, &fakeUploader{})
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-fail")
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	_, err = st.PresignGet(context.Background(), "k", time.Minute)
	require.EqualError(t, err, "presign-fail")
}
