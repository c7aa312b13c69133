package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNoImage              = errors.New("no image provided")
	ErrImageTooLarge        = errors.New("image too large")
	ErrImageNameTooLong     = errors.New("image name is too long")
	ErrImageTypeUnsupported = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")
)

const maxImageNameSize = 200

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ImageValidator checks an uploaded image by its real content rather than the
// headers sent by the client. On success the returned file is rewound and the
// detected MIME type is returned alongside it. The caller must close the file.
func ImageValidator(fh *multipart.FileHeader, maxSize int64) (int, multipart.File, string, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, "", ErrNoImage
	}

	if len(fh.Filename) > maxImageNameSize {
		return http.StatusBadRequest, nil, "", ErrImageNameTooLong
	}

	if maxSize > 0 && fh.Size > maxSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	if !slices.ContainsFunc(allowedImageTypes, mime.Is) {
		f.Close()
		return http.StatusBadRequest, nil, "", ErrImageTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	return 0, f, mime.String(), nil
}
