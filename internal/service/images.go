package service

import (
	"context"
	"log"
	"strings"
	"time"
)

// presignExpiry outlives the search cache TTL so cached results never carry
// expired links.
const presignExpiry = 24 * time.Hour

// ImageURLSigner turns a stored object key into a time-limited URL.
// config.S3Config satisfies this.
type ImageURLSigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// ImageService resolves recipe image references for responses. Recipes store
// either absolute URLs or S3 object keys; keys get presigned here.
type ImageService struct {
	signer ImageURLSigner
}

// NewImageService creates a new ImageService instance.
func NewImageService(signer ImageURLSigner) *ImageService {
	return &ImageService{signer: signer}
}

// ResolveImageURLs rewrites object keys in place as presigned URLs. A key
// that fails to sign is kept as-is; a broken image link is not worth failing
// a search over.
func (s *ImageService) ResolveImageURLs(ctx context.Context, results []ScoredRecipe) {
	if s == nil || s.signer == nil {
		return
	}
	for i := range results {
		urls := results[i].Recipe.ImageURLs
		for j, ref := range urls {
			if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
				continue
			}
			signed, err := s.signer.GeneratePresignedURL(ctx, ref, presignExpiry)
			if err != nil {
				log.Printf("presign image %q: %v", ref, err)
				continue
			}
			urls[j] = signed
		}
	}
}
