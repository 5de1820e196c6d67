package api

import (
	"errors"
	"net/http"

	"SentimentPulse/internal/domain/models"

	"github.com/labstack/echo/v4"
)

var uploadFields = []string{models.SentimentFileID, models.TraderFileID}

// uploadCounts counts selected files per input. A part with an empty filename is
// an unselected file input. Non-multipart bodies count as no uploads.
// Uploaded contents are never opened.
func uploadCounts(c echo.Context) (map[string]int, error) {
	counts := make(map[string]int, len(uploadFields))
	for _, id := range uploadFields {
		counts[id] = 0
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return counts, nil
		}
		return nil, err
	}
	defer func() { _ = form.RemoveAll() }()

	for _, id := range uploadFields {
		for _, fh := range form.File[id] {
			if fh.Filename != "" {
				counts[id]++
			}
		}
	}
	return counts, nil
}
