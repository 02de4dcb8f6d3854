package syncx

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hzh666kevin-hue/spc/internal/logging"
	"github.com/hzh666kevin-hue/spc/internal/repositories/blobs"
	"github.com/hzh666kevin-hue/spc/internal/vault"
)

// Test seams: the S3 calls are routed through package-level function
// vars so tests can stub the transport without a network.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
)

// S3Options configures the remote side of the relay. Endpoint is
// optional and allows MinIO-style deployments; AccessKey/SecretKey being
// empty falls back to the ambient AWS credential chain.
type S3Options struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// Prefix is prepended to object keys, e.g. "backups/laptop".
	Prefix string
}

// S3Syncer copies the vault's blobs to and from an S3-compatible bucket.
type S3Syncer struct {
	repo blobs.Repository
	log  logging.Logger
	opts S3Options
}

// NewS3Syncer returns a relay bound to the given repository and bucket.
func NewS3Syncer(repo blobs.Repository, log logging.Logger, opts S3Options) *S3Syncer {
	return &S3Syncer{repo: repo, log: log, opts: opts}
}

func (s *S3Syncer) client(ctx context.Context) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.opts.Region),
	}
	if s.opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.opts.AccessKey, s.opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

func (s *S3Syncer) objectKey(key string) string {
	return path.Join(s.opts.Prefix, key)
}

// Push uploads the verifier and the vault blob. A vault that was never
// created has nothing to push and reports an error rather than silently
// writing empty objects.
func (s *S3Syncer) Push(ctx context.Context) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	for _, key := range []string{vault.VerifierKey, vault.BlobKey} {
		value, err := s.repo.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if value == "" {
			return fmt.Errorf("nothing to push: %s is empty", key)
		}

		_, err = putObject(client, ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.opts.Bucket),
			Key:    aws.String(s.objectKey(key)),
			Body:   strings.NewReader(value),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		s.log.Info(ctx, "blob pushed", "key", key, "bucket", s.opts.Bucket)
	}
	return nil
}

// Pull downloads the verifier and the vault blob, replacing the local
// copies. Callers must make sure the vault is locked first: the session
// never reads persistence while unlocked, so swapping blobs under an
// open session would desynchronize them.
func (s *S3Syncer) Pull(ctx context.Context) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	// Fetch both objects before writing either, so a missing remote
	// object cannot leave a half-replaced local pair.
	values := make(map[string]string, 2)
	for _, key := range []string{vault.VerifierKey, vault.BlobKey} {
		out, err := getObject(client, ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.opts.Bucket),
			Key:    aws.String(s.objectKey(key)),
		})
		if err != nil {
			return fmt.Errorf("download %s: %w", key, err)
		}
		data, err := io.ReadAll(out.Body)
		_ = out.Body.Close()
		if err != nil {
			return fmt.Errorf("download %s: %w", key, err)
		}
		values[key] = string(data)
	}

	if err := s.repo.SetMany(ctx, values); err != nil {
		return fmt.Errorf("store pulled blobs: %w", err)
	}
	s.log.Info(ctx, "vault pulled", "bucket", s.opts.Bucket)
	return nil
}
