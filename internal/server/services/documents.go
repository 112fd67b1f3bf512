package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	sc "github.com/lvdopqt/carteira-digital-api/internal/server/config"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// CreateDocumentInput carries the client-supplied document fields. The owner
// is never part of it.
type CreateDocumentInput struct {
	Title        string
	FileURL      string
	DocumentType *string
}

// UploadTarget is a presigned PUT location for a document blob. FileURL is
// the locator to store in the document once the upload is done.
type UploadTarget struct {
	UploadURL string
	FileURL   string
	ExpiresIn time.Duration
}

// DocumentService exposes documents strictly through their owner.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
}

func NewDocumentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		now:         time.Now,
	}
}

// Create stores a document owned by owner.
func (s *DocumentService) Create(ctx context.Context, owner *models.User, in CreateDocumentInput) (*models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	doc, err := repo.Create(ctx, &models.Document{
		Title:        in.Title,
		FileURL:      in.FileURL,
		DocumentType: in.DocumentType,
		OwnerID:      owner.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating document: %w", err)
	}
	return doc, nil
}

// List returns owner's documents in creation order; never nil.
func (s *DocumentService) List(ctx context.Context, owner *models.User) ([]*models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	docs, err := repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	return docs, nil
}

// Get returns the document only when owner owns it. A document of another
// user yields common.ErrorNotFound, same as a missing one.
func (s *DocumentService) Get(ctx context.Context, owner *models.User, id int64) (*models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	doc, err := repo.GetByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading document: %w", err)
	}
	return doc, nil
}

// StorageKey builds the object key for a new blob of ownerID.
func StorageKey(ownerID int64, t time.Time) string {
	return fmt.Sprintf("users/%d/%04d/%02d/%02d/%v", ownerID, t.Year(), int(t.Month()), t.Day(), uuid.New())
}

func (s *DocumentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
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

// PresignUpload returns a presigned PUT URL under owner's key prefix. It
// fails with common.ErrStorageDisabled when no bucket is configured.
func (s *DocumentService) PresignUpload(ctx context.Context, owner *models.User) (*UploadTarget, error) {
	if s.config.S3Bucket == "" {
		return nil, common.ErrStorageDisabled
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(owner.ID, s.now().UTC())
	ttl := s.config.S3PresignValidityDuration

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	return &UploadTarget{
		UploadURL: req.URL,
		FileURL:   fmt.Sprintf("s3://%s/%s", bucket, key),
		ExpiresIn: ttl,
	}, nil
}
