package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/config"
	"github.com/dmitrijs2005/healthcal/internal/datekey"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// PhotoService hands out presigned URLs so diary photos travel directly
// between the client and S3-compatible storage.
type PhotoService struct {
	config *config.Config
	newID  func() string
}

func NewPhotoService(cfg *config.Config) *PhotoService {
	return &PhotoService{config: cfg, newID: uuid.NewString}
}

// StorageKey builds users/<uid>/diary/<yyyy>/<mm>/<dd>/<id> for a diary day.
func StorageKey(userID, date, id string) (string, error) {
	if !datekey.Valid(date) {
		return "", fmt.Errorf("%w: malformed date %q", common.ErrValidation, date)
	}
	y, m, d := date[0:4], date[5:7], date[8:10]
	return fmt.Sprintf("users/%s/diary/%s/%s/%s/%s", userID, y, m, d, id), nil
}

func (s *PhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return newS3PresignClient(client), nil
}

// PresignUpload reserves a fresh key under the diary day and returns it with
// a presigned PUT URL.
func (s *PhotoService) PresignUpload(ctx context.Context, userID, date string) (string, string, error) {
	key, err := StorageKey(userID, date, s.newID())
	if err != nil {
		return "", "", err
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presign put: %w", err)
	}
	return key, req.URL, nil
}

// PresignDownload returns a presigned GET URL for a key owned by userID.
func (s *PhotoService) PresignDownload(ctx context.Context, userID, key string) (string, error) {
	if !strings.HasPrefix(key, "users/"+userID+"/") {
		return "", fmt.Errorf("%w: photo %s does not belong to %s", common.ErrNotFound, key, userID)
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

// Expiry is how long presigned URLs stay valid.
func (s *PhotoService) Expiry() time.Duration {
	return s.config.PresignExpiry
}
