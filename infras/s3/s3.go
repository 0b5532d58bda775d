package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/infras/otel"
	"unires/shared/constant"
)

const (
	otelAttrFileName = "file_name"
	otelAttrBucket   = "bucket"
)

type S3 interface {
	UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error)
	DeleteFile(ctx context.Context, bucketName, directory, objectName string) error
	GetObjectNameFromURL(bucketName, url string) (objectName string)
}

type s3Impl struct {
	Client *s3.Client
	Config *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFileBytes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if bucketName == "" {
		bucketName = svc.Config.External.S3.BucketName
	}

	scope.SetAttributes(map[string]any{
		otelAttrFileName: fileName,
		otelAttrBucket:   bucketName,
	})

	objectKey := path.Join(directory, fileName)
	reader := bytes.NewReader(fileData)

	_, err = svc.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(reader.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.objectURL(bucketName, objectKey), nil
}

func (svc *s3Impl) DeleteFile(ctx context.Context, bucketName, directory, objectName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if bucketName == "" {
		bucketName = svc.Config.External.S3.BucketName
	}

	scope.SetAttributes(map[string]any{
		otelAttrFileName: objectName,
		otelAttrBucket:   bucketName,
	})

	_, err = svc.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(path.Join(directory, objectName)),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// GetObjectNameFromURL strips the public domain or API endpoint prefix from
// a URL produced by UploadFileBytes. Unknown URLs yield an empty name.
func (svc *s3Impl) GetObjectNameFromURL(bucketName, url string) (objectName string) {
	prefixes := []string{
		strings.TrimSuffix(svc.Config.External.S3.PublicDomain, "/") + "/",
		fmt.Sprintf("%s/%s/", strings.TrimSuffix(svc.Config.External.S3.APIEndpoint, "/"), bucketName),
	}

	for _, prefix := range prefixes {
		if prefix != "/" && strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}

	return constant.Empty
}

func (svc *s3Impl) objectURL(bucketName, objectKey string) string {
	if domain := svc.Config.External.S3.PublicDomain; domain != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(domain, "/"), objectKey)
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(svc.Config.External.S3.APIEndpoint, "/"), bucketName, objectKey)
}

func New(config *config.Config, otel otel.Otel) S3 {
	staticProvider := credentials.NewStaticCredentialsProvider(
		config.External.S3.AccessKeyID,
		config.External.S3.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if config.External.S3.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(config.External.S3.APIEndpoint)
		}

		o.UsePathStyle = true
		o.Region = "auto"
	})

	return &s3Impl{
		Client: s3Client,
		Config: config,
		otel:   otel,
	}
}
