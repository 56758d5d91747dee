package infra

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// Storage guarda los adjuntos de requisiciones en un bucket S3-compatible.
type Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

func NewStorage(ctx context.Context, cfg StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("cliente de storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("verificar bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("crear bucket %s: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("bucket de adjuntos creado")
	}
	return &Storage{client: client, bucket: cfg.Bucket, publicURL: cfg.PublicURL}, nil
}

// Subir guarda el archivo bajo requisiciones/<id>/<uuid>-<nombre> y devuelve
// la ruta interna y la URL de descarga.
func (s *Storage) Subir(ctx context.Context, requisicionID, nombre, contentType string, r io.Reader, size int64) (string, string, error) {
	path := fmt.Sprintf("requisiciones/%s/%s-%s", requisicionID, uuid.NewString(), nombre)
	_, err := s.client.PutObject(ctx, s.bucket, path, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("subir adjunto: %w", err)
	}
	return path, fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, path), nil
}

// Eliminar borra el objeto. Un objeto ya inexistente no es error: la
// limpieza se reintenta desde la cola y debe ser idempotente.
func (s *Storage) Eliminar(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("eliminar adjunto %s: %w", path, err)
	}
	return nil
}

// URLFirmada genera un enlace de descarga temporal.
func (s *Storage) URLFirmada(ctx context.Context, path string, vigencia time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, vigencia, nil)
	if err != nil {
		return "", fmt.Errorf("firmar url de %s: %w", path, err)
	}
	return u.String(), nil
}
