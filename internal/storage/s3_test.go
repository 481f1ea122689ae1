package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

// fakeS3 keeps objects in a map, keyed as the real backend would.
type fakeS3 struct {
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func newTestS3Client(api s3API) *S3Client {
	return &S3Client{api: api, bucket: "notes", fetchTimeout: time.Second, log: testLogger()}
}

func TestS3Client_PutGetRoundTrip(t *testing.T) {
	fake := newFakeS3()
	c := newTestS3Client(fake)
	ctx := context.Background()

	cid, err := c.Put(ctx, testBlob{EncryptedContent: "abc", Owner: "0x1"})
	require.NoError(t, err)
	assert.Contains(t, cid, cidPrefix)

	var got testBlob
	require.NoError(t, c.Get(ctx, cid, &got))
	assert.Equal(t, "abc", got.EncryptedContent)
}

func TestS3Client_PutIsDeterministicPerContent(t *testing.T) {
	c := newTestS3Client(newFakeS3())
	ctx := context.Background()

	a, err := c.Put(ctx, testBlob{EncryptedContent: "abc"})
	require.NoError(t, err)
	b, err := c.Put(ctx, testBlob{EncryptedContent: "abc"})
	require.NoError(t, err)
	other, err := c.Put(ctx, testBlob{EncryptedContent: "different"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
}

func TestS3Client_PutError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("AccessDenied")
	c := newTestS3Client(fake)

	_, err := c.Put(context.Background(), testBlob{})
	assert.ErrorIs(t, err, common.ErrUploadFailed)
}

func TestS3Client_GetDigestMismatch(t *testing.T) {
	fake := newFakeS3()
	c := newTestS3Client(fake)
	ctx := context.Background()

	cid, err := c.Put(ctx, testBlob{EncryptedContent: "abc"})
	require.NoError(t, err)

	// corrupt the stored object behind the identifier
	fake.objects[cid] = []byte(`{"encryptedContent":"tampered"}`)

	err = c.Get(ctx, cid, &testBlob{})
	assert.ErrorIs(t, err, common.ErrFetchFailed)
	assert.Contains(t, err.Error(), "digest mismatch")
}

func TestS3Client_GetMissing(t *testing.T) {
	c := newTestS3Client(newFakeS3())
	err := c.Get(context.Background(), cidPrefix+"deadbeef", &testBlob{})
	assert.ErrorIs(t, err, common.ErrFetchFailed)
}
