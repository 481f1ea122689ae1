package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/R3yz0n/beyond-pad/internal/common"
	"github.com/R3yz0n/beyond-pad/internal/logging"
)

// cidPrefix marks identifiers produced by the S3 backend; the rest of
// the identifier is the hex SHA-256 of the canonical JSON blob, so the
// backend stays content-addressed and Get can verify what it reads.
const cidPrefix = "sha256-"

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Client stores blobs in a bucket under their own content digest.
type S3Client struct {
	api          s3API
	bucket       string
	fetchTimeout time.Duration
	log          logging.Logger
}

// NewS3Client builds an S3-backed storage client. With an empty access
// key the ambient AWS credential chain is used.
func NewS3Client(ctx context.Context, bucket, region, accessKey, secretKey string, fetchTimeout time.Duration, log logging.Logger) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &S3Client{api: s3.NewFromConfig(cfg), bucket: bucket, fetchTimeout: fetchTimeout, log: log}, nil
}

func (c *S3Client) Put(ctx context.Context, v any) (string, error) {
	blob, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(blob)
	cid := cidPrefix + hex.EncodeToString(sum[:])

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(cid),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	c.log.Debug(ctx, "blob stored", "cid", cid, "bytes", len(blob))
	return cid, nil
}

func (c *S3Client) Get(ctx context.Context, cid string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(cid),
	})
	if err != nil {
		return classifyFetchErr(err)
	}
	defer out.Body.Close()

	blob, err := io.ReadAll(out.Body)
	if err != nil {
		return classifyFetchErr(err)
	}

	// content addressing: what came back must hash to the identifier
	if digest, ok := strings.CutPrefix(cid, cidPrefix); ok {
		sum := sha256.Sum256(blob)
		if hex.EncodeToString(sum[:]) != digest {
			return fmt.Errorf("%w: content digest mismatch for %s", common.ErrFetchFailed, cid)
		}
	}

	if err := json.Unmarshal(blob, v); err != nil {
		return fmt.Errorf("%w: decoding blob %s: %v", common.ErrFetchFailed, cid, err)
	}
	return nil
}
