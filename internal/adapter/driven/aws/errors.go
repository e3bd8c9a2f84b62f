package aws

import (
	"errors"
	"fmt"

	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ObjectError descreve uma falha em uma operação S3.
type ObjectError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("s3 %s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *ObjectError) Unwrap() error { return e.Err }

// isNotFound reconhece as formas de "objeto inexistente" devolvidas pelo SDK:
// NoSuchKey no GET e NotFound/404 no HEAD.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *s3Types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *s3Types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	return false
}
