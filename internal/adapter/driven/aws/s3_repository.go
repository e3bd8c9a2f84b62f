package aws

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
)

// S3RepositoryImpl implementa o ObjectStoreRepository sobre o S3.
type S3RepositoryImpl struct {
	console      types.ConsoleInterface
	registry     *clientRegistry
	targetBucket string
	target       S3API
}

// NewS3Repository cria o adaptador com o cliente de destino montado a partir da
// cadeia padrão de credenciais. Os clientes de origem são criados sob demanda.
func NewS3Repository(ctx context.Context, console types.ConsoleInterface, targetBucket, region string, maxAttempts int) (repository.ObjectStoreRepository, error) {
	cfg, err := defaultConfig(ctx, region, maxAttempts)
	if err != nil {
		return nil, err
	}
	return newS3Repository(console, newClientRegistry(maxAttempts), targetBucket, s3.NewFromConfig(cfg)), nil
}

func newS3Repository(console types.ConsoleInterface, registry *clientRegistry, targetBucket string, target S3API) *S3RepositoryImpl {
	return &S3RepositoryImpl{
		console:      console,
		registry:     registry,
		targetBucket: targetBucket,
		target:       target,
	}
}

// GetObject lê um objeto do bucket de origem da conta.
func (r *S3RepositoryImpl) GetObject(ctx context.Context, account entity.Account, key string) entity.ObjectResult {
	client, err := r.registry.s3Client(ctx, account)
	if err != nil {
		r.console.LogError("Could not create S3 client for account %s: %v", account.AccountID, err)
		return entity.ObjectResult{Status: entity.ObjectError, Err: err}
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(account.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			r.console.LogDebug("Object not found: s3://%s/%s", account.Bucket, key)
			return entity.ObjectResult{Status: entity.ObjectNotFound}
		}
		objErr := &ObjectError{Op: "get", Bucket: account.Bucket, Key: key, Err: err}
		r.console.LogError("%v", objErr)
		return entity.ObjectResult{Status: entity.ObjectError, Err: objErr}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		objErr := &ObjectError{Op: "read", Bucket: account.Bucket, Key: key, Err: err}
		r.console.LogError("%v", objErr)
		return entity.ObjectResult{Status: entity.ObjectError, Err: objErr}
	}

	return entity.ObjectResult{Status: entity.ObjectFound, Body: body}
}

// GetObjectMetadata faz um HEAD no bucket de origem da conta.
func (r *S3RepositoryImpl) GetObjectMetadata(ctx context.Context, account entity.Account, key string) entity.MetadataResult {
	client, err := r.registry.s3Client(ctx, account)
	if err != nil {
		r.console.LogError("Could not create S3 client for account %s: %v", account.AccountID, err)
		return entity.MetadataResult{Status: entity.ObjectError, Err: err}
	}

	out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(account.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			r.console.LogDebug("Object not found: s3://%s/%s", account.Bucket, key)
			return entity.MetadataResult{Status: entity.ObjectNotFound}
		}
		objErr := &ObjectError{Op: "head", Bucket: account.Bucket, Key: key, Err: err}
		r.console.LogError("%v", objErr)
		return entity.MetadataResult{Status: entity.ObjectError, Err: objErr}
	}

	return entity.MetadataResult{Status: entity.ObjectFound, Metadata: headMetadata(out)}
}

// ListSource lista todas as páginas de um prefixo no bucket de origem.
func (r *S3RepositoryImpl) ListSource(ctx context.Context, account entity.Account, prefix, delimiter string) (entity.Listing, error) {
	client, err := r.registry.s3Client(ctx, account)
	if err != nil {
		return entity.Listing{}, err
	}
	return listAll(ctx, client, account.Bucket, prefix, delimiter)
}

// CheckObjectExists faz um HEAD no bucket de destino.
func (r *S3RepositoryImpl) CheckObjectExists(ctx context.Context, key string) (bool, *entity.ObjectMetadata) {
	out, err := r.target.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.targetBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if !isNotFound(err) {
			r.console.LogError("%v", &ObjectError{Op: "head", Bucket: r.targetBucket, Key: key, Err: err})
		}
		return false, nil
	}
	md := headMetadata(out)
	return true, &md
}

// PutObject grava no bucket de destino. Falhas são registradas e devolvidas como false.
func (r *S3RepositoryImpl) PutObject(ctx context.Context, key string, body []byte) bool {
	_, err := r.target.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.targetBucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		r.console.LogError("%v", &ObjectError{Op: "put", Bucket: r.targetBucket, Key: key, Err: err})
		return false
	}
	r.console.LogDebug("Uploaded s3://%s/%s (%d bytes)", r.targetBucket, key, len(body))
	return true
}

// ListTarget lista todas as páginas de um prefixo no bucket de destino.
func (r *S3RepositoryImpl) ListTarget(ctx context.Context, prefix, delimiter string) (entity.Listing, error) {
	return listAll(ctx, r.target, r.targetBucket, prefix, delimiter)
}

// DeleteTarget remove um objeto do bucket de destino.
func (r *S3RepositoryImpl) DeleteTarget(ctx context.Context, key string) error {
	_, err := r.target.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.targetBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &ObjectError{Op: "delete", Bucket: r.targetBucket, Key: key, Err: err}
	}
	return nil
}

// listAll segue os tokens de continuação até a última página.
func listAll(ctx context.Context, client S3API, bucket, prefix, delimiter string) (entity.Listing, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	if delimiter != "" {
		input.Delimiter = aws.String(delimiter)
	}

	var listing entity.Listing
	paginator := s3.NewListObjectsV2Paginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return entity.Listing{}, &ObjectError{Op: "list", Bucket: bucket, Key: prefix, Err: err}
		}
		for _, obj := range page.Contents {
			listing.Objects = append(listing.Objects, entity.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
		for _, cp := range page.CommonPrefixes {
			listing.CommonPrefixes = append(listing.CommonPrefixes, aws.ToString(cp.Prefix))
		}
	}
	return listing, nil
}

func headMetadata(out *s3.HeadObjectOutput) entity.ObjectMetadata {
	return entity.ObjectMetadata{
		LastModified: aws.ToTime(out.LastModified).UTC(),
		Size:         aws.ToInt64(out.ContentLength),
		ETag:         aws.ToString(out.ETag),
	}
}
