// Package awskms supplies master secret material for AWS deployments: a
// KMS-wrapped master key blob and a salt object, both stored in S3. The raw
// master key never exists outside this process and KMS.
package awskms

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// kmsClient is the subset of the KMS API this provider needs (allows mocking).
type kmsClient interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// s3Client is the subset of the S3 API this provider needs (allows mocking).
type s3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config locates the wrapped key material.
type Config struct {
	// Region is the AWS region. If empty, the default config chain decides.
	Region string

	// AWSConfig is an optional pre-built AWS config; Region is ignored when
	// it is set.
	AWSConfig *aws.Config

	// Bucket holds both objects.
	Bucket string

	// WrappedKeyObject is the S3 key of the KMS-encrypted master key blob.
	WrappedKeyObject string

	// SaltObject is the S3 key of the raw salt bytes.
	SaltObject string
}

// Provider implements surgdb.SecretProvider over KMS + S3.
type Provider struct {
	kms kmsClient
	s3  s3Client
	cfg Config
}

// New builds the AWS clients and validates the object locations.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Bucket == "" || cfg.WrappedKeyObject == "" || cfg.SaltObject == "" {
		return nil, fmt.Errorf("bucket, wrapped key object, and salt object are all required")
	}

	var awsCfg aws.Config
	var err error
	if cfg.AWSConfig != nil {
		awsCfg = *cfg.AWSConfig
	} else {
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
	}

	return &Provider{
		kms: kms.NewFromConfig(awsCfg),
		s3:  s3.NewFromConfig(awsCfg),
		cfg: cfg,
	}, nil
}

// Material fetches the wrapped master key, unwraps it with KMS, and fetches
// the salt.
func (p *Provider) Material(ctx context.Context) ([]byte, []byte, error) {
	wrapped, err := p.object(ctx, p.cfg.WrappedKeyObject)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch wrapped master key: %w", err)
	}

	out, err := p.kms.Decrypt(ctx, &kms.DecryptInput{CiphertextBlob: wrapped})
	if err != nil {
		return nil, nil, fmt.Errorf("unwrap master key: %w", err)
	}
	if len(out.Plaintext) == 0 {
		return nil, nil, fmt.Errorf("KMS returned empty plaintext for master key")
	}

	salt, err := p.object(ctx, p.cfg.SaltObject)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch salt: %w", err)
	}
	return out.Plaintext, salt, nil
}

func (p *Provider) object(ctx context.Context, key string) ([]byte, error) {
	out, err := p.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", p.cfg.Bucket, key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", p.cfg.Bucket, key, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("s3://%s/%s is empty", p.cfg.Bucket, key)
	}
	return b, nil
}
