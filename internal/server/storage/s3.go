package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/auditoria/internal/logging"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config addresses an S3 bucket or an S3-compatible endpoint such as MinIO.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Prefix       string
}

// ObjectPutter is the subset of *s3.Client used by the mirror.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client from cfg. Without static keys the default AWS
// credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			// MinIO and friends expect path-style addressing
			o.UsePathStyle = true
		}
	}), nil
}

// MirrorStore saves to a primary store and then copies the bytes to S3.
// The primary copy is authoritative: a failed mirror upload is logged and
// the primary path is still returned.
type MirrorStore struct {
	primary Store
	client  ObjectPutter
	bucket  string
	prefix  string
	logger  logging.Logger
}

func NewMirrorStore(primary Store, client ObjectPutter, cfg S3Config, logger logging.Logger) *MirrorStore {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MirrorStore{
		primary: primary,
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		logger:  logger,
	}
}

func (s *MirrorStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	p, err := s.primary.Save(ctx, name, data)
	if err != nil {
		return "", err
	}

	key := path.Join(s.prefix, name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.logger.Warn(ctx, "s3 mirror upload failed", "bucket", s.bucket, "key", key, "error", err)
		return p, nil
	}

	s.logger.Debug(ctx, "s3 mirror upload done", "bucket", s.bucket, "key", key)
	return p, nil
}
