package initializers

import (
	"context"
	filestorage "shift-tools-backend/lib/file-storage"
	s3client "shift-tools-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3() {
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}

	// Проверка соединения
	_, err = minioClient.ListBuckets(context.Background())
	if err != nil {
		log.WithError(err).Error("S3 соединение не удалось — ListBuckets вернул ошибку")
		return
	}

	s3client.Client = minioClient
	filestorage.NewInstance(minioClient)
	if err = filestorage.Instance.EnsureBucket(context.Background()); err != nil {
		log.WithError(err).Error("Ошибка создания бакета для архива выгрузок")
	}
	log.Info("S3 клиент успешно инициализирован")
}
