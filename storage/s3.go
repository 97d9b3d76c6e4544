package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

// S3Store implements a registry store on Amazon S3 or compatible object
// storage. Each container region is one object keyed by its location hex.
// Object replacement via PutObject is atomic, which carries the
// all-or-nothing write guarantee.
//
// The store relies on the single-writer-per-container model: Allocate's
// existence check and the subsequent put are not fenced against a racing
// writer of the same owner.
type S3Store struct {
	client      *s3.S3
	bucketName  string
	prefix      string
	log         *slog.Logger
	locationURI string
}

// NewS3Store creates an S3-backed registry store.
func NewS3Store(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*S3Store, error) {
	uri := fmt.Sprintf("s3://%s/%s?region=%s", bucketName, prefix, region)
	if endpoint != "" {
		uri += fmt.Sprintf("&endpoint=%s", endpoint)
	}

	cfg := aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{
		client:      s3.New(sess),
		bucketName:  bucketName,
		prefix:      strings.TrimSuffix(prefix, "/"),
		log:         log,
		locationURI: uri,
	}, nil
}

// Allocate creates a zero-filled region object after checking no object
// exists at the location.
func (s *S3Store) Allocate(ctx context.Context, loc interfaces.RegistryLocation, size int) error {
	key := s.objectKey(loc)

	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err == nil {
		return interfaces.ErrAlreadyExists
	}
	if !isNotFoundErr(err) {
		return fmt.Errorf("%w: %v", interfaces.ErrAllocationFailed, err)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(make([]byte, size)),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrAllocationFailed, err)
	}

	s.log.Debug("Allocated registry region in S3",
		slog.String("bucket", s.bucketName),
		slog.String("key", key),
		slog.Int("size", size))
	return nil
}

// Read returns the full stored region object.
func (s *S3Store) Read(ctx context.Context, loc interfaces.RegistryLocation) ([]byte, error) {
	start := time.Now()
	key := s.objectKey(loc)

	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return nil, interfaces.ErrRegistryNotFound
		}
		return nil, fmt.Errorf("failed to get region object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read region object body: %w", err)
	}

	s.log.Debug("Read registry region from S3",
		slog.String("bucket", s.bucketName),
		slog.String("key", key),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Write atomically replaces the stored region object.
func (s *S3Store) Write(ctx context.Context, loc interfaces.RegistryLocation, data []byte) error {
	key := s.objectKey(loc)

	reserved, err := s.Reserved(ctx, loc)
	if err != nil {
		return err
	}
	if len(data) < reserved {
		return fmt.Errorf("write below reservation: region %d bytes, image %d", reserved, len(data))
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrResourceExhausted, err)
	}

	s.log.Debug("Wrote registry region to S3",
		slog.String("bucket", s.bucketName),
		slog.String("key", key),
		slog.Int("size", len(data)))
	return nil
}

// Reserved returns the region object size.
func (s *S3Store) Reserved(ctx context.Context, loc interfaces.RegistryLocation) (int, error) {
	head, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(loc)),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return 0, interfaces.ErrRegistryNotFound
		}
		return 0, fmt.Errorf("failed to head region object: %w", err)
	}
	return int(aws.Int64Value(head.ContentLength)), nil
}

// Available checks if the bucket is accessible.
func (s *S3Store) Available(ctx context.Context) bool {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err != nil {
		s.log.Warn("S3 store unavailable",
			slog.String("bucket", s.bucketName),
			"err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this store.
func (s *S3Store) Name() string {
	return fmt.Sprintf("s3-%s", s.bucketName)
}

// LocationURI returns the URI that identifies this store.
func (s *S3Store) LocationURI() string {
	return s.locationURI
}

// objectKey generates an S3 object key for a registry location.
func (s *S3Store) objectKey(loc interfaces.RegistryLocation) string {
	if s.prefix == "" {
		return loc.String()
	}
	return path.Join(s.prefix, loc.String())
}

func isNotFoundErr(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "NotFound") ||
		strings.Contains(err.Error(), "NoSuchKey") ||
		strings.Contains(err.Error(), "404"))
}
