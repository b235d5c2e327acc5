package service

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// CoverArtService derives cover image URLs from an ISBN using the Open Library
// covers endpoint. There is no upload path; the URL is purely deterministic.
type CoverArtService struct {
	baseURL    string
	httpClient *http.Client
}

func NewCoverArtService(baseURL string) *CoverArtService {
	return &CoverArtService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *CoverArtService) CoverURL(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-M.jpg?default=false", s.baseURL, isbn)
}

// HasCover probes the cover endpoint; default=false makes it 404 when Open
// Library has no image for the ISBN.
func (s *CoverArtService) HasCover(ctx context.Context, isbn string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.CoverURL(isbn), nil)
	if err != nil {
		return false, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
