package filestorage

import (
	"bytes"
	"context"
	"io"
	"shift-tools-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Архив выгрузок: копии сформированных отчетов сохраняются в S3

type Provider interface {
	SaveExport(ctx context.Context, objectName string, body []byte, contentType string) error
	GetExport(ctx context.Context, objectName string) ([]byte, error)
	EnsureBucket(ctx context.Context) error
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
	}
}

type impl struct {
	s3client *minio.Client
}

func (i impl) EnsureBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: "us-east-1"})
}

func (i impl) SaveExport(ctx context.Context, objectName string, body []byte, contentType string) error {
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.BucketName, objectName,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения выгрузки в s3")
	}
	return nil
}

func (i impl) GetExport(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения выгрузки из s3")
	}
	defer obj.Close()
	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения выгрузки из s3")
	}
	return body, nil
}
