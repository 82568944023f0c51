package model

import "strings"

// =====================================================
// PLATFORM BUCKETS
// =====================================================

// PlatformBucket groups raw sale platform strings into the three reporting
// buckets used on statements and summaries.
type PlatformBucket string

const (
	BucketWebsite   PlatformBucket = "WEBSITE"
	BucketEbook     PlatformBucket = "EBOOK"
	BucketEcommerce PlatformBucket = "ECOMMERCE"
)

func (b PlatformBucket) String() string {
	return string(b)
}

var websiteMarkers = []string{"website", "direct"}

var ebookMarkers = []string{
	"ebook",
	"kindle",
	"google books",
	"google play",
	"kobo",
	"apple books",
	"nook",
}

// ClassifyPlatform maps a raw platform label to its bucket. Matching is
// case-insensitive substring with WEBSITE checked before EBOOK; anything
// unrecognized, including an empty label, lands in ECOMMERCE.
func ClassifyPlatform(platform string) PlatformBucket {
	normalized := strings.ToLower(strings.TrimSpace(platform))
	if normalized == "" {
		return BucketEcommerce
	}

	for _, marker := range websiteMarkers {
		if strings.Contains(normalized, marker) {
			return BucketWebsite
		}
	}
	for _, marker := range ebookMarkers {
		if strings.Contains(normalized, marker) {
			return BucketEbook
		}
	}
	return BucketEcommerce
}
