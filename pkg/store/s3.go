package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dd0wney/cluso-netensemble/pkg/metrics"
)

// ObjectAPI is the part of the S3 client the store uses
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config locates a bucket and the credentials to reach it.
// Empty credentials fall back to the default AWS chain.
type S3Config struct {
	Bucket          string `yaml:"bucket" validate:"required"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region" validate:"required"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// NewS3Client builds an S3 client for cfg
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// S3Store keeps snapshots as objects under Prefix in Bucket
type S3Store struct {
	Client  ObjectAPI
	Bucket  string
	Prefix  string
	Metrics *metrics.Registry
}

// NewS3Store returns a store writing through client
func NewS3Store(client ObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{Client: client, Bucket: bucket, Prefix: prefix}
}

// KeyFor returns the object key of a run's snapshot
func (s *S3Store) KeyFor(runID string) string {
	return path.Join(s.Prefix, runID+Extension)
}

// Save uploads snap and returns its object key
func (s *S3Store) Save(ctx context.Context, snap *Snapshot) (string, error) {
	data, err := Encode(snap)
	if err == nil {
		_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.Bucket),
			Key:         aws.String(s.KeyFor(snap.RunID)),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/octet-stream"),
		})
		if err != nil {
			err = fmt.Errorf("put snapshot: %w", err)
		}
	}
	s.record("save", len(data), err)
	if err != nil {
		return "", err
	}
	return s.KeyFor(snap.RunID), nil
}

// Load downloads the snapshot of runID
func (s *S3Store) Load(ctx context.Context, runID string) (*Snapshot, error) {
	data, err := s.get(ctx, runID)
	var snap *Snapshot
	if err == nil {
		snap, err = Decode(data)
	}
	s.record("load", len(data), err)
	return snap, err
}

func (s *S3Store) get(ctx context.Context, runID string) ([]byte, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.KeyFor(runID)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, runID)
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

func (s *S3Store) record(op string, size int, err error) {
	if s.Metrics != nil {
		s.Metrics.RecordSnapshot("s3", op, size, err)
	}
}
