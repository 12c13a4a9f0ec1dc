package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/config"
	"yelpcamp/internal/models"
)

// sniffLen is how many leading bytes are inspected to detect the image type.
const sniffLen = 3072

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ObjectClient is the subset of *minio.Client used here.
type ObjectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type Storage interface {
	UploadImage(ctx context.Context, originalName string, file io.Reader, size int64) (models.Image, error)
	DeleteImage(ctx context.Context, filename string) error
}

type MinIOClient struct {
	client    ObjectClient
	bucket    string
	folder    string
	publicURL string
	region    string
	timeout   time.Duration
}

// NewMinIOClient connects to the configured endpoint and makes sure the bucket exists.
func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	m := NewWithClient(client, cfg.MinIO)

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

// NewWithClient builds the storage on top of an existing object client.
func NewWithClient(client ObjectClient, cfg config.MinIO) *MinIOClient {
	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &MinIOClient{
		client:    client,
		bucket:    cfg.BucketName,
		folder:    strings.Trim(cfg.Folder, "/"),
		publicURL: publicURL,
		region:    cfg.Region,
		timeout:   timeout,
	}
}

func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
	}
	log.Printf("Created bucket %s", m.bucket)
	return nil
}

// UploadImage stores a jpeg or png image and returns its public url and the
// filename it can later be deleted by.
func (m *MinIOClient) UploadImage(ctx context.Context, originalName string, file io.Reader, size int64) (models.Image, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.Image{}, fmt.Errorf("failed to read upload %q: %w", originalName, err)
	}
	head = head[:n]

	contentType := mimetype.Detect(head).String()
	ext, ok := allowedTypes[contentType]
	if !ok {
		verr := &apperror.ValidationError{}
		verr.Add("image", fmt.Sprintf(`"image" %s must be a jpeg or png file`, originalName))
		return models.Image{}, verr
	}

	objectName := fmt.Sprintf("%s/%s%s", m.folder, uuid.New().String(), ext)
	body := io.MultiReader(bytes.NewReader(head), file)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err = m.client.PutObject(ctx, m.bucket, objectName, body, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": originalName,
				"uploaded-at":       time.Now().UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %v: %w", objectName, err, apperror.ErrStorage)
	}

	return models.Image{
		URL:      m.URL(objectName),
		Filename: objectName,
	}, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, filename string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.client.RemoveObject(ctx, m.bucket, filename, minio.RemoveObjectOptions{GovernanceBypass: true})
	if err != nil {
		return fmt.Errorf("delete %s: %v: %w", filename, err, apperror.ErrStorage)
	}
	return nil
}

// URL is the public address of an object.
func (m *MinIOClient) URL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, objectName)
}
