package model

import "context"

// MediaStore uploads a local file and returns its public URL. The local
// file is removed after the attempt, whether it succeeds or not.
type MediaStore interface {
	UploadFile(ctx context.Context, localPath string) (url string, err error)
}
