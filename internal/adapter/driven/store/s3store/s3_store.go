// Package s3store keeps each region as a CSV object in an S3 bucket.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	awsprovider "github.com/diillson/ticket-ledger/internal/adapter/driven/aws"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/rows"
	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// objectAPI is the part of the S3 client the store uses.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store is a TabularStore over s3://bucket/prefix/<region>.csv.
type Store struct {
	client objectAPI
	bucket string
	prefix string
}

// Open resolves credentials for profile, verifies them with STS and returns the store.
// A named profile missing from the shared AWS files fails before any AWS call.
func Open(ctx context.Context, provider *awsprovider.ClientProvider, bucket, prefix, profile, region string) (*Store, error) {
	homeDir, _ := os.UserHomeDir()
	if err := knownProfile(homeDir, profile); err != nil {
		return nil, err
	}
	if _, err := provider.AccountID(ctx, profile, region); err != nil {
		return nil, fmt.Errorf("%w: verifying AWS credentials: %w", types.ErrConfig, err)
	}
	client, err := provider.S3(ctx, profile, region)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}
	return newStore(client, bucket, prefix), nil
}

func knownProfile(homeDir, profile string) error {
	if profile == "" || homeDir == "" {
		return nil
	}
	if !awsprovider.HasProfile(homeDir, profile) {
		return fmt.Errorf("%w: AWS profile %q not found in %s (known: %s)", types.ErrConfig,
			profile, filepath.Join(homeDir, ".aws"), strings.Join(awsprovider.Profiles(homeDir), ", "))
	}
	return nil
}

func newStore(client objectAPI, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *Store) key(region string) string {
	if s.prefix == "" {
		return region + ".csv"
	}
	return path.Join(s.prefix, region+".csv")
}

// get returns the object body; a missing object reads as nil.
func (s *Store) get(ctx context.Context, region string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(region)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *Store) put(ctx context.Context, region string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(region)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	return err
}

func (s *Store) Read(ctx context.Context, region string) ([][]string, error) {
	body, err := s.get(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("%w: s3://%s/%s: %w", types.ErrStoreRead, s.bucket, s.key(region), err)
	}
	out, err := rows.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: s3://%s/%s: %w", types.ErrStoreRead, s.bucket, s.key(region), err)
	}
	return out, nil
}

// Append rewrites the object with m added after its current contents.
func (s *Store) Append(ctx context.Context, region string, m entity.Matrix) error {
	body, err := s.get(ctx, region)
	if err != nil {
		return fmt.Errorf("%w: s3://%s/%s: %w", types.ErrStoreWrite, s.bucket, s.key(region), err)
	}
	added, err := rows.EncodeBytes(rows.Strings(m))
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}
	if err := s.put(ctx, region, append(body, added...)); err != nil {
		return fmt.Errorf("%w: s3://%s/%s: %w", types.ErrStoreWrite, s.bucket, s.key(region), err)
	}
	return nil
}

func (s *Store) Overwrite(ctx context.Context, region string, m entity.Matrix) error {
	body, err := rows.EncodeBytes(rows.Strings(m))
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	if err := s.put(ctx, region, body); err != nil {
		return fmt.Errorf("%w: s3://%s/%s: %w", types.ErrStoreWrite, s.bucket, s.key(region), err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
