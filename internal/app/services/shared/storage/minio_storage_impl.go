package storage

import (
	"bytes"
	"context"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// minioArchiver stores payloads of settlement jobs that exhausted their
// retry budget, so the finance team has a durable object to reconcile from.
type minioArchiver struct {
	client     *minio.Client
	log        *zap.Logger
	bucketName string
}

func NewMinioArchiver(client *minio.Client, logger *zap.Logger, bucketName string) contracts.ObjectArchiver {
	return &minioArchiver{
		client:     client,
		log:        logger,
		bucketName: bucketName,
	}
}

func (s *minioArchiver) Archive(ctx context.Context, objectName string, payload []byte) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, s.bucketName)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return exceptions.ErrMinioCreateObject(err, s.bucketName)
		}
	}

	_, err = s.client.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: constvars.MIMEApplicationJSON,
	})
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, s.bucketName)
	}

	s.log.Info("archived payload for manual reconciliation",
		zap.String("bucket", s.bucketName),
		zap.String("object_name", objectName),
	)
	return nil
}
